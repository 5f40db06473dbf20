package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestEmptyIsValid(t *testing.T) {
	m := Manifest{}
	require.NoError(t, m.Validate())
}

func TestManifestValidateCollectsAllErrors(t *testing.T) {
	m := Manifest{
		Types: []TypeDecl{{Name: ""}, {Name: "a/b"}, {Name: "dev"}, {Name: "dev"}},
		Objects: []ObjectDecl{
			{Path: "machine", Type: "dev"},
			{Path: "/", Type: "dev"},
			{Path: "/x", Type: ""},
			{Path: "/y", Type: "dev"},
			{Path: "/y/", Type: "dev"},
		},
		Paths: []string{"/ok", "bad", "/a/../b"},
	}
	err := m.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"types[0]: name is required",
		"types[1]: name \"a/b\" must not contain '/'",
		"types[3]: duplicate type \"dev\"",
		"objects[0]: path \"machine\" must begin with '/'",
		"objects[1]: cannot place an object at the root",
		"objects[2]: type is required",
		"objects[4]: duplicate path \"/y/\"",
		"paths[1]: path \"bad\" must begin with '/'",
		"paths[2]: path \"/a/../b\" must not contain '.' or '..'",
	} {
		assert.Contains(t, msg, want)
	}
	assert.NotContains(t, msg, "paths[0]")
}

func TestManifestValidAccepted(t *testing.T) {
	m := Manifest{
		Name:    "machine",
		Types:   []TypeDecl{{Name: "device", Abstract: true}, {Name: "serial", Parent: "device"}},
		Objects: []ObjectDecl{{Path: "/machine/peripheral/serial0", Type: "serial"}},
		Paths:   []string{"/machine/unattached", "/"},
	}
	assert.NoError(t, m.Validate())
}
