package config

import (
	"encoding/base64"
	"errors"
	"os"

	"sigs.k8s.io/yaml"
)

// ContentFetcher fetches a file's content from the platform at a
// given ref, used as the final fallback source (§4.1, "Input
// sources"). Encoding is either "base64" or "utf-8", matching how
// source-hosting platforms report file content encoding.
type ContentFetcher interface {
	GetContent(org, repo, path, ref string) (content string, encoding string, err error)
}

// Env names the environment variables §6 defines for locating the
// permissions document.
type Env struct {
	FileOrg       string
	FileRepo      string // default ".permissions"
	FilePath      string // default "config.yaml"
	FileRef       string // default "main"
	FileLocalPath string
}

func (e Env) repo() string {
	if e.FileRepo == "" {
		return ".permissions"
	}
	return e.FileRepo
}

func (e Env) path() string {
	if e.FilePath == "" {
		return "config.yaml"
	}
	return e.FilePath
}

func (e Env) ref() string {
	if e.FileRef == "" {
		return "main"
	}
	return e.FileRef
}

// Load tries each input source in the order given by §4.1: local
// config.yml, config.yaml, the path named by FileLocalPath, and
// finally a platform fetch. The first source that exists wins; later
// sources are not consulted even if the chosen one turns out
// malformed (a malformed source is a terminal ErrConfigMalformed, not
// a fallthrough).
func Load(env Env, fetcher ContentFetcher) (*PermissionsConfig, error) {
	var tried []string
	for _, candidate := range []string{"config.yml", "config.yaml", env.FileLocalPath} {
		if candidate == "" {
			continue
		}
		tried = append(tried, candidate)
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &ErrConfigMalformed{Source: candidate, Err: err}
		}
		return decode(candidate, data)
	}

	if fetcher != nil && env.FileOrg != "" {
		source := env.FileOrg + "/" + env.repo() + "/" + env.path() + "@" + env.ref()
		tried = append(tried, source)
		content, encoding, err := fetcher.GetContent(env.FileOrg, env.repo(), env.path(), env.ref())
		if err != nil {
			return nil, &ErrConfigMalformed{Source: source, Err: err}
		}
		data, err := decodeContent(content, encoding)
		if err != nil {
			return nil, &ErrConfigMalformed{Source: source, Err: err}
		}
		return decode(source, data)
	}

	return nil, &ErrConfigMissing{Tried: tried}
}

func decodeContent(content, encoding string) ([]byte, error) {
	if encoding == "base64" {
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(content), nil
}

// decode parses the raw YAML bytes into one or more validated
// OrganizationConfig values. The top-level document may be a single
// mapping (one org) or a YAML sequence of them (§3, PermissionsConfig).
func decode(source string, data []byte) (*PermissionsConfig, error) {
	var docs []*rawDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		var single rawDoc
		if err2 := yaml.Unmarshal(data, &single); err2 != nil {
			return nil, &ErrConfigMalformed{Source: source, Err: err}
		}
		docs = []*rawDoc{&single}
	}

	resolved := map[string]map[string]*TeamConfig{}
	orgs := make([]*OrganizationConfig, 0, len(docs))

	for _, doc := range docs {
		org, err := normalizeDoc(doc, resolved)
		if err != nil {
			var invalid *ErrConfigInvalid
			if errors.As(err, &invalid) {
				return nil, invalid
			}
			return nil, &ErrConfigMalformed{Source: source, Err: err}
		}
		orgs = append(orgs, org)
		byName := map[string]*TeamConfig{}
		for _, t := range org.Teams {
			byName[t.Name] = t
		}
		resolved[org.Organization] = byName
	}

	var errs Errors
	seenOrgRepos := map[string]bool{}
	for _, org := range orgs {
		if err := Validate(org); err != nil {
			errs.add(err)
		}
		if seenOrgRepos[org.Organization] {
			errs.invalid("organization", org.Organization, "", "duplicate organization in document")
		}
		seenOrgRepos[org.Organization] = true
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &PermissionsConfig{Orgs: orgs}, nil
}

func normalizeDoc(doc *rawDoc, resolved map[string]map[string]*TeamConfig) (*OrganizationConfig, error) {
	teams, err := normalizeTeams(doc.Teams, func(org string) (map[string]*TeamConfig, bool) {
		t, ok := resolved[org]
		return t, ok
	})
	if err != nil {
		return nil, err
	}

	repos := make([]*RepositoryConfig, 0, len(doc.Repositories))
	for _, rr := range doc.Repositories {
		repo := rr.toRepositoryConfig()
		rulesets, err := resolveRulesets(doc.Organization, rr, doc.CommonRulesets)
		if err != nil {
			return nil, err
		}
		repo.Rulesets = rulesets
		repos = append(repos, repo)
	}

	return &OrganizationConfig{
		Organization:          doc.Organization,
		RepositoryDefaults:    doc.RepositoryDefaults,
		Teams:                 teams,
		Repositories:          repos,
		CommonRulesets:        doc.CommonRulesets,
		CustomProperties:      doc.CustomProperties,
		DestructiveOperations: doc.DestructiveOperations,
	}, nil
}
