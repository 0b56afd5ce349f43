package plugins

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_KnownNames(t *testing.T) {
	log := logrus.NewEntry(logrus.StandardLogger())
	built := Build([]string{"gsuite", "slack", "heroku", "github"}, Options{
		GsuiteDomain: "example.com",
	}, log)

	require.Len(t, built, 4)
	names := make([]string, len(built))
	for i, p := range built {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"gsuite", "slack", "heroku", "github"}, names)
}

func TestBuild_UnknownNameSkipped(t *testing.T) {
	log := logrus.NewEntry(logrus.StandardLogger())
	built := Build([]string{"gsuite", "bogus"}, Options{}, log)
	require.Len(t, built, 1)
	assert.Equal(t, "gsuite", built[0].Name())
}

func TestBuild_Empty(t *testing.T) {
	log := logrus.NewEntry(logrus.StandardLogger())
	assert.Nil(t, Build(nil, Options{}, log))
}
