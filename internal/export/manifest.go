package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	manifestJSON = "users.json"
	manifestYAML = "users.yaml"
)

// User is one selectable profile from the users manifest.
type User struct {
	ID             string   `json:"id" yaml:"id"`
	DisplayName    string   `json:"displayName" yaml:"displayName"`
	Folder         string   `json:"folder" yaml:"folder"`
	Lists          []string `json:"lists,omitempty" yaml:"lists,omitempty"`
	FeedUsername   string   `json:"rssUsername,omitempty" yaml:"rssUsername,omitempty"`
	LastUpdated    string   `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	SingleUserMode bool     `json:"singleUserMode,omitempty" yaml:"singleUserMode,omitempty"`
}

// DefaultUser is the implicit profile used when no usable manifest exists.
func DefaultUser() User {
	return User{ID: "default", DisplayName: "User", Folder: ".", SingleUserMode: true}
}

type manifestDoc struct {
	Users []User `json:"users" yaml:"users"`
}

// readManifest returns the manifest users, or the implicit default profile
// when the manifest is missing, empty, or malformed. The error is informational.
func readManifest(fsys afero.Fs, baseDir string) ([]User, error) {
	data, name, err := readFirst(fsys, baseDir, manifestJSON, manifestYAML)
	if err != nil {
		return []User{DefaultUser()}, err
	}

	users, err := decodeManifest(name, data)
	if err != nil {
		return []User{DefaultUser()}, fmt.Errorf("parse %s: %w", name, err)
	}

	valid := make([]User, 0, len(users))
	for _, user := range users {
		user.ID = strings.TrimSpace(user.ID)
		if user.ID == "" {
			continue
		}
		user.Folder = strings.TrimSpace(user.Folder)
		if user.Folder == "" {
			user.Folder = user.ID
		}
		if strings.TrimSpace(user.DisplayName) == "" {
			user.DisplayName = user.ID
		}
		valid = append(valid, user)
	}
	if len(valid) == 0 {
		return []User{DefaultUser()}, fmt.Errorf("%s lists no usable profiles", name)
	}
	return valid, nil
}

func decodeManifest(name string, data []byte) ([]User, error) {
	unmarshal := json.Unmarshal
	if strings.HasSuffix(name, ".yaml") {
		unmarshal = yaml.Unmarshal
	}

	var users []User
	if err := unmarshal(data, &users); err == nil {
		return users, nil
	}
	var doc manifestDoc
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func readFirst(fsys afero.Fs, dir string, names ...string) ([]byte, string, error) {
	for _, name := range names {
		data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
		if err == nil {
			return data, name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, name, err
		}
	}
	return nil, "", fs.ErrNotExist
}
