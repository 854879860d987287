package catalog

import "strings"

// Tool is a single integration tool the executor may be allowed to use.
type Tool struct {
	Name        string
	Description string
}

// Category groups related tools.
type Category struct {
	Name        string
	Description string
	Tools       []Tool
}

// Catalog is a static registry of integration tools grouped by category.
type Catalog struct {
	categories []Category
	byName     map[string]int
}

// New builds a catalog from the given categories.
func New(categories []Category) *Catalog {
	c := &Catalog{categories: categories, byName: map[string]int{}}
	for i, category := range categories {
		c.byName[category.Name] = i
	}
	return c
}

// Categories returns all categories in declaration order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category looks up a category by name, case-insensitively.
func (c *Catalog) Category(name string) (Category, bool) {
	if i, ok := c.byName[strings.ToLower(name)]; ok {
		return c.categories[i], true
	}
	return Category{}, false
}

// Tools returns all tools across all categories.
func (c *Catalog) Tools() []Tool {
	var tools []Tool
	for _, category := range c.categories {
		tools = append(tools, category.Tools...)
	}
	return tools
}

// Info looks up a tool by name. An exact match is preferred, otherwise
// the first tool whose name contains the given string matches.
func (c *Catalog) Info(name string) (Tool, Category, bool) {
	for _, category := range c.categories {
		for _, tool := range category.Tools {
			if tool.Name == name {
				return tool, category, true
			}
		}
	}

	lower := strings.ToLower(name)
	for _, category := range c.categories {
		for _, tool := range category.Tools {
			if strings.Contains(strings.ToLower(tool.Name), lower) {
				return tool, category, true
			}
		}
	}

	return Tool{}, Category{}, false
}

// AllowList returns all tool names as the flat comma-separated list the
// executor expects.
func (c *Catalog) AllowList() string {
	var names []string
	for _, tool := range c.Tools() {
		names = append(names, tool.Name)
	}
	return strings.Join(names, ",")
}

// AllowedTools returns all tool names as a slice.
func (c *Catalog) AllowedTools() []string {
	var names []string
	for _, tool := range c.Tools() {
		names = append(names, tool.Name)
	}
	return names
}

// Default returns the built-in tool catalog.
func Default() *Catalog {
	return New([]Category{
		{
			Name:        "core",
			Description: "Built-in tools of the coding assistant",
			Tools: []Tool{
				{"Task", "Run a sub-task with its own tool access"},
				{"Bash", "Execute shell commands"},
				{"Glob", "Find files by name pattern"},
				{"Grep", "Search file contents"},
				{"LS", "List directory contents"},
				{"Read", "Read a file"},
				{"Edit", "Edit a file in place"},
				{"MultiEdit", "Apply multiple edits to a file"},
				{"Write", "Write a file"},
				{"WebFetch", "Fetch a web page"},
				{"WebSearch", "Search the web"},
				{"TodoRead", "Read the task list"},
				{"TodoWrite", "Update the task list"},
			},
		},
		{
			Name:        "memento",
			Description: "Knowledge graph memory system for persistent knowledge storage and retrieval",
			Tools: []Tool{
				{"mcp__memento__create_entities", "Create multiple new entities in your knowledge graph"},
				{"mcp__memento__create_relations", "Create multiple new relations between entities"},
				{"mcp__memento__add_observations", "Add new observations to existing entities"},
				{"mcp__memento__read_graph", "Read the entire knowledge graph memory system"},
				{"mcp__memento__search_nodes", "Search for nodes based on a query"},
				{"mcp__memento__semantic_search", "Search for entities semantically using vector embeddings"},
			},
		},
		{
			Name:        "sequentialthinking",
			Description: "Structured analytical thinking framework with tool recommendations",
			Tools: []Tool{
				{"mcp__sequentialthinking__sequentialthinking_tools", "A detailed tool for dynamic and reflective problem-solving through thoughts"},
			},
		},
		{
			Name:        "github",
			Description: "GitHub repository interaction tools for code and project management",
			Tools: []Tool{
				{"mcp__github__create_branch", "Create a new branch in a GitHub repository"},
				{"mcp__github__create_issue", "Create a new issue in a GitHub repository"},
				{"mcp__github__create_pull_request", "Create a new pull request in a GitHub repository"},
				{"mcp__github__get_file_contents", "Get the contents of a file or directory from a GitHub repository"},
				{"mcp__github__list_issues", "List issues in a GitHub repository with filtering options"},
				{"mcp__github__merge_pull_request", "Merge a pull request"},
				{"mcp__github__push_files", "Push multiple files to a GitHub repository in a single commit"},
				{"mcp__github__search_code", "Search for code across GitHub repositories"},
			},
		},
		{
			Name:        "context7",
			Description: "Library documentation lookup and retrieval tools",
			Tools: []Tool{
				{"mcp__context7__resolve-library-id", "Resolves a package name to a Context7-compatible library ID"},
				{"mcp__context7__get-library-docs", "Fetches up-to-date documentation for a library"},
			},
		},
		{
			Name:        "omnisearch",
			Description: "Web search capabilities using various search engines",
			Tools: []Tool{
				{"mcp__omnisearch__tavily_search", "Search the web using Tavily Search API"},
				{"mcp__omnisearch__perplexity_search", "AI-powered response generation combining real-time web search"},
				{"mcp__omnisearch__tavily_extract_process", "Extract web page content from single or multiple URLs"},
			},
		},
		{
			Name:        "playwright",
			Description: "Browser automation for web interactions and testing",
			Tools: []Tool{
				{"mcp__playwright__browser_navigate", "Navigate to a URL"},
				{"mcp__playwright__browser_screenshot", "Take a screenshot of the current page or a specific element"},
				{"mcp__playwright__browser_click", "Click an element on the page using CSS selector"},
				{"mcp__playwright__browser_fill", "Fill out an input field"},
				{"mcp__playwright__browser_evaluate", "Execute JavaScript in the browser console"},
			},
		},
	})
}
