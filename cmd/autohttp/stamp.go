package main

import (
	"github.com/go-git/go-git/v5"
)

// revision returns the commit checked out in the repository containing dir
func revision(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func revisionComment(hash string) []string {
	return []string{".. generated from revision " + hash, ""}
}
