package gitinfo

import (
	"github.com/go-git/go-git/v5"
	"github.com/m-mizutani/goerr/v2"
)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// CommitHash returns the HEAD commit of the repository containing
// projectPath. Parent directories are searched for .git.
func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", goerr.Wrap(err, "opening git repo", goerr.V("path", projectPath))
	}

	head, err := repo.Head()
	if err != nil {
		return "", goerr.Wrap(err, "getting HEAD", goerr.V("path", projectPath))
	}

	return head.Hash().String(), nil
}

func open(projectPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
}
