package reconcile

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"

	"github.com/electron/sheriff/internal/config"
	"github.com/electron/sheriff/internal/platform"
)

// syncCustomProperties upserts every declared org-level custom
// property whose value_type/required/description/default_value/
// allowed_values differs from upstream, and deletes any upstream
// property absent from config (§4.2 step 1).
func (r *Reconciler) syncCustomProperties(ctx context.Context, client *platform.CachedClient, org *config.OrganizationConfig, log *logrus.Entry) error {
	observed, err := client.ListCustomProperties(ctx, org.Organization)
	if err != nil {
		return err
	}

	observedByName := make(map[string]*github.CustomProperty, len(observed))
	for _, p := range observed {
		observedByName[p.GetPropertyName()] = p
	}

	declaredByName := make(map[string]*config.CustomProperty, len(org.CustomProperties))
	for _, p := range org.CustomProperties {
		declaredByName[p.PropertyName] = p
	}

	CompareEntities(declaredByName, observedByName,
		func(l *config.CustomProperty, r *github.CustomProperty) bool {
			return propertyEquivalent(l, r)
		},
		func(name string, l *config.CustomProperty) {
			r.logMutation(log, "upsert_custom_property", "creating custom property ", name)
			if r.DryRun {
				return
			}
			if err := client.CreateOrUpdateCustomProperty(ctx, org.Organization, toGitHubProperty(l)); err != nil {
				log.WithField("property", name).WithError(err).Error("create custom property failed")
			}
		},
		func(name string, _ *github.CustomProperty) {
			r.logMutation(log, "remove_custom_property", "removing custom property ", name)
			if r.DryRun {
				return
			}
			if err := client.RemoveCustomProperty(ctx, org.Organization, name); err != nil {
				log.WithField("property", name).WithError(err).Error("remove custom property failed")
			}
		},
		func(name string, l *config.CustomProperty, _ *github.CustomProperty) {
			r.logMutation(log, "update_custom_property", "updating custom property ", name)
			if r.DryRun {
				return
			}
			if err := client.CreateOrUpdateCustomProperty(ctx, org.Organization, toGitHubProperty(l)); err != nil {
				log.WithField("property", name).WithError(err).Error("update custom property failed")
			}
		},
	)

	return nil
}

func propertyEquivalent(l *config.CustomProperty, rp *github.CustomProperty) bool {
	if string(l.ValueType) != rp.GetValueType() {
		return false
	}
	if l.Required != rp.GetRequired() {
		return false
	}
	if l.Description != rp.GetDescription() {
		return false
	}
	if !reflect.DeepEqual(l.AllowedValues, rp.AllowedValues) {
		return false
	}
	return propertyDefaultEquivalent(l.DefaultValue, rp.DefaultValue)
}

func propertyDefaultEquivalent(l *config.PropertyValue, observed *string) bool {
	if l == nil {
		return observed == nil
	}
	if observed == nil {
		return false
	}
	if l.Scalar != nil {
		return *l.Scalar == *observed
	}
	if l.Multi != nil {
		var observedMulti []string
		if err := json.Unmarshal([]byte(*observed), &observedMulti); err != nil {
			return false
		}
		return reflect.DeepEqual(l.Multi, observedMulti)
	}
	return false
}

func toGitHubProperty(l *config.CustomProperty) *github.CustomProperty {
	p := &github.CustomProperty{
		PropertyName:  l.PropertyName,
		ValueType:     string(l.ValueType),
		Required:      &l.Required,
		Description:   &l.Description,
		AllowedValues: l.AllowedValues,
	}
	if l.DefaultValue != nil {
		switch {
		case l.DefaultValue.Scalar != nil:
			p.DefaultValue = l.DefaultValue.Scalar
		case l.DefaultValue.Multi != nil:
			if encoded, err := json.Marshal(l.DefaultValue.Multi); err == nil {
				s := string(encoded)
				p.DefaultValue = &s
			}
		}
	}
	return p
}
