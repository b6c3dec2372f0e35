package gitlab

import (
	"context"
	"unicode/utf8"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

const fallbackBranch = "main"

// GitLabProject is a project read through the REST API. Its root files are
// downloaded lazily, once.
type GitLabProject struct {
	client          *gl.Client
	project         *gl.Project
	fileConcurrency int
	files           *entities.FileList
}

func newGitLabProject(client *gl.Client, project *gl.Project, fileConcurrency int) *GitLabProject {
	p := &GitLabProject{client: client, project: project, fileConcurrency: fileConcurrency}
	p.files = entities.NewFileList(p.fetchFiles)
	return p
}

func (p *GitLabProject) URL() string         { return p.project.WebURL }
func (p *GitLabProject) Name() string        { return p.project.Name }
func (p *GitLabProject) Description() string { return p.project.Description }
func (p *GitLabProject) Topics() []string    { return p.project.Topics }

// Owner is the owning user of a personal project, or the namespace path otherwise.
func (p *GitLabProject) Owner() string {
	if p.project.Owner != nil && p.project.Owner.Username != "" {
		return p.project.Owner.Username
	}
	if p.project.Namespace != nil {
		return p.project.Namespace.FullPath
	}
	return ""
}

func (p *GitLabProject) Files(ctx context.Context) ([]entities.RepositoryFile, error) {
	return p.files.Get(ctx)
}

func (p *GitLabProject) fetchFiles(ctx context.Context) ([]entities.RepositoryFile, error) {
	paths, err := p.listRootBlobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return []entities.RepositoryFile{}, nil
	}

	branch, err := p.defaultBranch(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([][]byte, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(p.fileConcurrency, 1))
	for i, path := range paths {
		group.Go(func() error {
			raw, resp, getErr := p.client.RepositoryFiles.GetRawFile(
				p.project.ID, path,
				&gl.GetRawFileOptions{Ref: gl.Ptr(branch)},
				gl.WithContext(groupCtx),
			)
			if getErr != nil {
				return upstreamError("get file "+path+" of "+p.project.PathWithNamespace, resp, getErr)
			}
			contents[i] = raw
			return nil
		})
	}
	if waitErr := group.Wait(); waitErr != nil {
		return nil, waitErr
	}

	files := make([]entities.RepositoryFile, 0, len(paths))
	for i, path := range paths {
		if !utf8.Valid(contents[i]) {
			logger.Debugf("Skipping non-text file %q of %s", path, p.project.PathWithNamespace)
			continue
		}
		files = append(files, entities.NewRepositoryFile(path, string(contents[i])))
	}
	return files, nil
}

func (p *GitLabProject) listRootBlobs(ctx context.Context) ([]string, error) {
	var paths []string
	opts := &gl.ListTreeOptions{ListOptions: gl.ListOptions{PerPage: perPage}}
	for {
		nodes, resp, err := p.client.Repositories.ListTree(p.project.ID, opts, gl.WithContext(ctx))
		if err != nil {
			// an empty repository has no tree
			if isNotFound(resp) {
				return nil, nil
			}
			return nil, upstreamError("list tree of "+p.project.PathWithNamespace, resp, err)
		}
		for _, node := range nodes {
			if node.Type == "blob" {
				paths = append(paths, node.Path)
			}
		}
		if resp.NextPage == 0 {
			return paths, nil
		}
		opts.Page = resp.NextPage
	}
}

// defaultBranch prefers the project's default branch, then the branch flagged
// as default, then "main".
func (p *GitLabProject) defaultBranch(ctx context.Context) (string, error) {
	if p.project.DefaultBranch != "" {
		return p.project.DefaultBranch, nil
	}

	branches, resp, err := p.client.Branches.ListBranches(p.project.ID, &gl.ListBranchesOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}, gl.WithContext(ctx))
	if err != nil {
		return "", upstreamError("list branches of "+p.project.PathWithNamespace, resp, err)
	}
	for _, branch := range branches {
		if branch.Default {
			return branch.Name, nil
		}
	}
	return fallbackBranch, nil
}
