package issues

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	githubql "github.com/shurcooL/githubv4"
	"github.com/shurcooL/graphql"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/logger"
)

const maxResponseSize = 100

type GithubClient interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
	Mutate(ctx context.Context, m interface{}, input githubql.Input, variables map[string]interface{}) error
}

// GitHubTracker keeps alert issues in one GitHub repository.
type GitHubTracker struct {
	client GithubClient
	owner  string
	repo   string

	repoID githubql.ID
	labels map[string]githubql.ID
}

func NewGitHubTracker(client GithubClient, owner, repo string) *GitHubTracker {
	return &GitHubTracker{client: client, owner: owner, repo: repo}
}

type issueNode struct {
	ID     githubql.ID
	Number githubql.Int
	Title  githubql.String
	State  githubql.IssueState
	Labels struct {
		Nodes []struct {
			Name githubql.String
		}
	} `graphql:"labels(first: 20)"`
}

type searchIssuesQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage githubql.Boolean
			EndCursor   githubql.String
		}
		Nodes []struct {
			Issue issueNode `graphql:"... on Issue"`
		}
	} `graphql:"search(query: $query, type: ISSUE, first: $total, after: $cursor)"`
}

type repositoryQuery struct {
	Repository struct {
		ID     githubql.ID
		Labels struct {
			Nodes []struct {
				ID   githubql.ID
				Name githubql.String
			}
		} `graphql:"labels(first: 100)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

func (n issueNode) toIssue() Issue {
	return Issue{
		ID:     fmt.Sprint(n.ID),
		Number: int(n.Number),
		Title:  string(n.Title),
		State:  State(n.State),
		Labels: lo.Map(n.Labels.Nodes, func(l struct{ Name githubql.String }, _ int) string { return string(l.Name) }),
	}
}

func (t *GitHubTracker) ListAlerts(ctx context.Context) ([]Issue, error) {
	variables := map[string]interface{}{
		"query":  githubql.String(fmt.Sprintf(`repo:%s/%s is:issue in:title "%s"`, t.owner, t.repo, titlePrefix[:len(titlePrefix)-1])),
		"total":  graphql.Int(maxResponseSize),
		"cursor": (*githubql.String)(nil),
	}

	var issues []Issue
	for {
		var q searchIssuesQuery
		if err := t.client.Query(ctx, &q, variables); err != nil {
			return nil, xerrors.Errorf("graphql api error: %w", err)
		}
		for _, n := range q.Search.Nodes {
			// nodes that are not issues decode empty
			if n.Issue.ID == nil || n.Issue.ID == "" {
				continue
			}
			issues = append(issues, n.Issue.toIssue())
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubql.NewString(q.Search.PageInfo.EndCursor)
	}
	logger.Debugf("Found %d existing alert issues in %s/%s", len(issues), t.owner, t.repo)
	return issues, nil
}

// load fetches the repository ID and label IDs once.
func (t *GitHubTracker) load(ctx context.Context) error {
	if t.labels != nil {
		return nil
	}
	var q repositoryQuery
	variables := map[string]interface{}{
		"owner": githubql.String(t.owner),
		"name":  githubql.String(t.repo),
	}
	if err := t.client.Query(ctx, &q, variables); err != nil {
		return xerrors.Errorf("failed to look up repository %s/%s: %w", t.owner, t.repo, err)
	}
	t.repoID = q.Repository.ID
	t.labels = make(map[string]githubql.ID, len(q.Repository.Labels.Nodes))
	for _, l := range q.Repository.Labels.Nodes {
		t.labels[string(l.Name)] = l.ID
	}
	return nil
}

func (t *GitHubTracker) labelIDs(names []string) []githubql.ID {
	var ids []githubql.ID
	for _, name := range names {
		id, ok := t.labels[name]
		if !ok {
			logger.Warnf("Label %q does not exist in %s/%s, skipping", name, t.owner, t.repo)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (t *GitHubTracker) Create(ctx context.Context, title, body string, labels []string) (Issue, error) {
	if err := t.load(ctx); err != nil {
		return Issue{}, err
	}
	var m struct {
		CreateIssue struct {
			Issue issueNode
		} `graphql:"createIssue(input: $input)"`
	}
	input := githubql.CreateIssueInput{
		RepositoryID: t.repoID,
		Title:        githubql.String(title),
		Body:         githubql.NewString(githubql.String(body)),
	}
	if ids := t.labelIDs(labels); len(ids) > 0 {
		input.LabelIDs = &ids
	}
	if err := t.client.Mutate(ctx, &m, input, nil); err != nil {
		return Issue{}, xerrors.Errorf("graphql api error: %w", err)
	}
	return m.CreateIssue.Issue.toIssue(), nil
}

func (t *GitHubTracker) Comment(ctx context.Context, issue Issue, body string) error {
	var m struct {
		AddComment struct {
			ClientMutationID *githubql.String `graphql:"clientMutationId"`
		} `graphql:"addComment(input: $input)"`
	}
	input := githubql.AddCommentInput{SubjectID: githubql.ID(issue.ID), Body: githubql.String(body)}
	if err := t.client.Mutate(ctx, &m, input, nil); err != nil {
		return xerrors.Errorf("graphql api error: %w", err)
	}
	return nil
}

func (t *GitHubTracker) Close(ctx context.Context, issue Issue) error {
	var m struct {
		CloseIssue struct {
			Issue struct {
				ID githubql.ID
			}
		} `graphql:"closeIssue(input: $input)"`
	}
	if err := t.client.Mutate(ctx, &m, githubql.CloseIssueInput{IssueID: githubql.ID(issue.ID)}, nil); err != nil {
		return xerrors.Errorf("graphql api error: %w", err)
	}
	return nil
}

func (t *GitHubTracker) Reopen(ctx context.Context, issue Issue) error {
	var m struct {
		ReopenIssue struct {
			Issue struct {
				ID githubql.ID
			}
		} `graphql:"reopenIssue(input: $input)"`
	}
	if err := t.client.Mutate(ctx, &m, githubql.ReopenIssueInput{IssueID: githubql.ID(issue.ID)}, nil); err != nil {
		return xerrors.Errorf("graphql api error: %w", err)
	}
	return nil
}

func (t *GitHubTracker) SetLabels(ctx context.Context, issue Issue, add, remove []string) error {
	if err := t.load(ctx); err != nil {
		return err
	}
	if ids := t.labelIDs(remove); len(ids) > 0 {
		var m struct {
			RemoveLabelsFromLabelable struct {
				ClientMutationID *githubql.String `graphql:"clientMutationId"`
			} `graphql:"removeLabelsFromLabelable(input: $input)"`
		}
		input := githubql.RemoveLabelsFromLabelableInput{LabelableID: githubql.ID(issue.ID), LabelIDs: ids}
		if err := t.client.Mutate(ctx, &m, input, nil); err != nil {
			return xerrors.Errorf("graphql api error: %w", err)
		}
	}
	if ids := t.labelIDs(add); len(ids) > 0 {
		var m struct {
			AddLabelsToLabelable struct {
				ClientMutationID *githubql.String `graphql:"clientMutationId"`
			} `graphql:"addLabelsToLabelable(input: $input)"`
		}
		input := githubql.AddLabelsToLabelableInput{LabelableID: githubql.ID(issue.ID), LabelIDs: ids}
		if err := t.client.Mutate(ctx, &m, input, nil); err != nil {
			return xerrors.Errorf("graphql api error: %w", err)
		}
	}
	return nil
}
