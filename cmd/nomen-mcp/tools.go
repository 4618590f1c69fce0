package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAskNamingTool returns the ask_naming tool definition
func createAskNamingTool() mcp.Tool {
	return mcp.NewTool("ask_naming",
		mcp.WithDescription("Ask the naming assistant a question about variable, function, or database naming conventions. Answers are grounded on the organization's rules, term dictionary, and Q&A history. Korean and English questions are both supported."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural language naming question, e.g. '재고 수량을 담는 변수 이름을 추천해줘'"),
		),
	)
}

// createAnalyzeCodeTool returns the analyze_code tool definition
func createAnalyzeCodeTool() mcp.Tool {
	return mcp.NewTool("analyze_code",
		mcp.WithDescription("Review source code for naming convention violations. Returns a summary and a violation table with line numbers and suggested fixes. The file extension selects the rule category (.java, .sql, .js/.ts/.html)."),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("File name including extension, e.g. OrderService.java"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Full source code to review"),
		),
		mcp.WithString("note",
			mcp.Description("Optional instructions for the reviewer, e.g. 'DB 컬럼명 위주로 봐줘'"),
		),
	)
}

// createGenerateAbbreviationTool returns the generate_abbreviation tool definition
func createGenerateAbbreviationTool() mcp.Tool {
	return mcp.NewTool("generate_abbreviation",
		mcp.WithDescription("Propose a short standardized abbreviation for a full term, grounded on the organization's term dictionary"),
		mcp.WithString("full_name",
			mcp.Required(),
			mcp.Description("Full term to abbreviate, e.g. 'customer number' or '주문번호'"),
		),
	)
}

// createSearchCollectionsTool returns the search_collections tool definition
func createSearchCollectionsTool() mcp.Tool {
	return mcp.NewTool("search_collections",
		mcp.WithDescription("Run a hybrid lexical+vector search over the naming knowledge collections without invoking the LLM. Useful for inspecting what context the assistant would retrieve."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (terms may be joined with OR)"),
		),
		mcp.WithArray("collections",
			mcp.WithStringItems(),
			mcp.Description("Filter by collections: rules, dictionary, qa (default: all)"),
		),
	)
}
