package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryLookup(t *testing.T) {
	testee := Default()

	category, found := testee.Category("github")
	require.True(t, found)
	require.Equal(t, "github", category.Name)
	require.NotEmpty(t, category.Tools)

	_, found = testee.Category("nope")
	require.False(t, found)
}

func TestInfo(t *testing.T) {
	testee := Default()

	tool, category, found := testee.Info("Bash")
	require.True(t, found)
	require.Equal(t, "Bash", tool.Name)
	require.Equal(t, "core", category.Name)

	// Partial names resolve to the first containing tool.
	tool, category, found = testee.Info("tavily_search")
	require.True(t, found)
	require.Equal(t, "mcp__omnisearch__tavily_search", tool.Name)
	require.Equal(t, "omnisearch", category.Name)

	_, _, found = testee.Info("no_such_tool_at_all")
	require.False(t, found)
}

func TestAllowList(t *testing.T) {
	testee := Default()

	allowList := testee.AllowList()
	names := strings.Split(allowList, ",")

	require.Equal(t, testee.AllowedTools(), names)
	require.Contains(t, names, "Bash")
	require.Contains(t, names, "mcp__github__create_pull_request")
	require.Len(t, names, len(testee.Tools()))
}
