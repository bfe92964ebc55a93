package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)
	assert.Contains(t, c.Languages(), "en")
	assert.Contains(t, c.Languages(), "es")
}

func TestLoadUnknownDefault(t *testing.T) {
	_, err := Load("zz")
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "en", c.Resolve("en"))
	assert.Equal(t, "es", c.Resolve("es"))
	// Regional variants resolve to their base table.
	assert.Equal(t, "es", c.Resolve("es-MX"))
	// Unknown languages fall back to the default.
	assert.Equal(t, "en", c.Resolve("ja"))
	assert.Equal(t, "en", c.Resolve(""))
}

func TestText(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	assert.Contains(t, c.Text("welcome_message", "en", "Jane"), "Jane")
	// Keys missing from a partial table fall back to the default language.
	en := c.Text("help_text", "en")
	assert.Equal(t, en, c.Text("help_text", "hi"))
	// Unknown keys come back verbatim so the defect is visible in chat.
	assert.Equal(t, "no_such_key", c.Text("no_such_key", "en"))
}

func TestTextLocalized(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	es := c.Text("booking_cancelled", "es")
	assert.NotEqual(t, c.Text("booking_cancelled", "en"), es)
	assert.NotEmpty(t, es)
}
