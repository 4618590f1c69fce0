package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
)

// handleAskNaming implements the ask_naming tool
func handleAskNaming(assistant interfaces.AssistantService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse question parameter (required)
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: question parameter is required"),
				},
			}, nil
		}

		// Run the pipeline
		record, err := assistant.Ask(ctx, &models.AskRequest{Text: question})
		if err != nil {
			logger.Error().Err(err).Msg("Ask failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Pipeline error: %v", err)),
				},
			}, nil
		}

		// Format answer with retrieval details as markdown
		markdown := formatRecord(record)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleAnalyzeCode implements the analyze_code tool
func handleAnalyzeCode(assistant interfaces.AssistantService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse file_name parameter (required)
		fileName, err := request.RequireString("file_name")
		if err != nil || fileName == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: file_name parameter is required"),
				},
			}, nil
		}

		// Parse code parameter (required)
		code, err := request.RequireString("code")
		if err != nil || code == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: code parameter is required"),
				},
			}, nil
		}

		// Optional reviewer note
		note := request.GetString("note", "")

		record, err := assistant.Ask(ctx, &models.AskRequest{
			Text: note,
			File: &models.UploadedFile{
				Name:    fileName,
				Content: []byte(code),
			},
		})
		if err != nil {
			logger.Error().Err(err).Str("file", fileName).Msg("Analyze failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Pipeline error: %v", err)),
				},
			}, nil
		}

		markdown := formatRecord(record)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleGenerateAbbreviation implements the generate_abbreviation tool
func handleGenerateAbbreviation(assistant interfaces.AssistantService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse full_name parameter (required)
		fullName, err := request.RequireString("full_name")
		if err != nil || fullName == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: full_name parameter is required"),
				},
			}, nil
		}

		abbreviation, err := assistant.Abbreviate(ctx, fullName)
		if err != nil {
			logger.Error().Err(err).Str("full_name", fullName).Msg("Abbreviate failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Abbreviation error: %v", err)),
				},
			}, nil
		}

		markdown := formatAbbreviation(fullName, abbreviation)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleSearchCollections implements the search_collections tool
func handleSearchCollections(searchers []interfaces.CollectionSearcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse query parameter (required)
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: query parameter is required"),
				},
			}, nil
		}

		// Parse collections filter
		wanted := request.GetStringSlice("collections", nil)

		// Searchers come in fusion order; the filter keeps that order.
		// Search degrades to zero snippets on failure, so no error leg.
		results := make(map[string][]models.ContextSnippet)
		var order []string
		for _, s := range searchers {
			if !collectionWanted(s.Collection(), wanted) {
				continue
			}
			order = append(order, s.Collection())
			results[s.Collection()] = s.Search(ctx, query, query)
		}

		if len(order) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: collections filter matched nothing (expected rules, dictionary, or qa)"),
				},
			}, nil
		}

		markdown := formatSearchResults(query, order, results)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// collectionWanted reports whether a collection passes the filter. An
// empty filter passes everything.
func collectionWanted(collection string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if w == collection {
			return true
		}
	}
	return false
}
