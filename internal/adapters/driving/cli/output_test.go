package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}

func TestStyled_PlainWhenNotTerminal(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))

	assert.Equal(t, "EMERGENCY", styled(cmd, emergencyStyle, "EMERGENCY"))
}

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := printJSON(cmd, map[string]int{"chunks": 3})

	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"chunks\": 3\n}\n", buf.String())
}
