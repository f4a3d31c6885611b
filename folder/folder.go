package folder

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IsGoFile returns true if a file name is a go file
func IsGoFile(fileName string) bool {
	return strings.HasSuffix(fileName, ".go")
}

// ListGoFiles lists the go files of a directory that no blacklist expression matches
func ListGoFiles(dir string, blacklist []*regexp.Regexp) ([]string, error) {
	files := make([]string, 0)
	filesInDir, err := ioutil.ReadDir(dir)
	if err != nil {
		return files, err
	}
	for _, info := range filesInDir {
		filePath := filepath.Join(dir, info.Name())
		if !info.IsDir() && IsGoFile(info.Name()) && !shouldIgnore(filePath, blacklist) {
			files = append(files, filePath)
		}
	}
	return files, nil
}

// ListPackageDirs walks root and lists the directories the go tool would
// build: testdata, vendor and directories starting with . or _ are skipped
func ListPackageDirs(root string) ([]string, error) {
	dirs := make([]string, 0)
	err := filepath.Walk(root, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if filePath != root && skipDir(info.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, filePath)
		return nil
	})
	return dirs, err
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func shouldIgnore(filePath string, blacklist []*regexp.Regexp) bool {
	for _, r := range blacklist {
		if r.MatchString(filePath) {
			return true
		}
	}
	return false
}
