package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/time/rate"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
	"github.com/rios0rios0/catalogdiscovery/internal/infrastructure/repositories/pagination"
)

const repositoriesQuery = `
query repositories($org: String!, $cursor: String) {
  repositoryOwner(login: $org) {
    login
    repositories(first: 100, after: $cursor) {
      nodes {
        name
        url
        description
        isArchived
        isFork
        repositoryTopics(first: 100) {
          nodes {
            ... on RepositoryTopic {
              topic {
                name
              }
            }
          }
        }
        defaultBranchRef {
          name
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

// filesQuery reads the blobs at the root of the default branch plus the two
// directories where ownership files conventionally live.
const filesQuery = `
query RepoFiles($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    root: object(expression: "HEAD:") {
      ...treeBlobs
    }
    github: object(expression: "HEAD:.github") {
      ...treeBlobs
    }
    docs: object(expression: "HEAD:docs") {
      ...treeBlobs
    }
  }
}

fragment treeBlobs on GitObject {
  ... on Tree {
    entries {
      name
      type
      object {
        ... on Blob {
          byteSize
          text
          isBinary
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphqlResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type repositoriesData struct {
	RepositoryOwner *struct {
		Login        string                          `json:"login"`
		Repositories *pagination.Page[repositoryNode] `json:"repositories"`
	} `json:"repositoryOwner"`
}

type repositoryNode struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	Description      string `json:"description"`
	IsArchived       bool   `json:"isArchived"`
	IsFork           bool   `json:"isFork"`
	RepositoryTopics struct {
		Nodes []struct {
			Topic struct {
				Name string `json:"name"`
			} `json:"topic"`
		} `json:"nodes"`
	} `json:"repositoryTopics"`
	DefaultBranchRef *struct {
		Name string `json:"name"`
	} `json:"defaultBranchRef"`
}

func (n repositoryNode) topics() []string {
	topics := make([]string, 0, len(n.RepositoryTopics.Nodes))
	for _, node := range n.RepositoryTopics.Nodes {
		if node.Topic.Name != "" {
			topics = append(topics, node.Topic.Name)
		}
	}
	return topics
}

type treeObject struct {
	Entries []treeEntry `json:"entries"`
}

type treeEntry struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Object *struct {
		ByteSize int     `json:"byteSize"`
		Text     *string `json:"text"`
		IsBinary *bool   `json:"isBinary"`
	} `json:"object"`
}

type filesData struct {
	Repository *struct {
		Root   *treeObject `json:"root"`
		GitHub *treeObject `json:"github"`
		Docs   *treeObject `json:"docs"`
	} `json:"repository"`
}

// graphqlClient posts queries through a go-github client so that rate limit
// handling and error decoding match the REST API.
type graphqlClient struct {
	client   *gh.Client
	endpoint string
	limiter  *rate.Limiter
}

// graphqlEndpoint derives the GraphQL URL from a REST API base URL:
// "https://api.github.com" serves "/graphql" while Enterprise Server serves
// "/api/graphql" next to "/api/v3".
func graphqlEndpoint(apiBaseURL string) string {
	base := strings.TrimSuffix(apiBaseURL, "/")
	if trimmed, ok := strings.CutSuffix(base, "/api/v3"); ok {
		return trimmed + "/api/graphql"
	}
	return base + "/graphql"
}

func query[T any](
	ctx context.Context,
	c *graphqlClient,
	operation string,
	queryText string,
	variables map[string]any,
) (T, error) {
	var zero T
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}

	req, err := c.client.NewRequest(http.MethodPost, c.endpoint, &graphqlRequest{
		Query:     queryText,
		Variables: variables,
	})
	if err != nil {
		return zero, fmt.Errorf("failed to build GraphQL request: %w", err)
	}

	var response graphqlResponse[T]
	resp, err := c.client.Do(ctx, req, &response)
	if err != nil {
		upstream := &entities.UpstreamError{Platform: providerName, Operation: operation, Err: err}
		if resp != nil {
			upstream.StatusCode = resp.StatusCode
		}
		return zero, upstream
	}

	if len(response.Errors) > 0 {
		messages := make([]string, 0, len(response.Errors))
		for _, graphqlErr := range response.Errors {
			messages = append(messages, graphqlErr.Message)
		}
		return zero, &entities.UpstreamError{
			Platform:  providerName,
			Operation: operation,
			Err:       errors.New(strings.Join(messages, "; ")),
		}
	}

	return response.Data, nil
}
