package objectkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for image key generation strategies
type Generator interface {
	// GenerateKey creates a fresh blob key; two calls never return the same key
	GenerateKey(metadata *KeyMetadata) string
}

// KeyMetadata contains information that influences key generation
type KeyMetadata struct {
	Scope     string // "articles", "sections"
	ArticleID int64
	OwnerID   int64 // id of the row the image belongs to, 0 before insert
	FileName  string
}

// FlatGenerator names keys after the owning rows:
// {scope}/{article}/{owner}/{uuid}_{filename}
type FlatGenerator struct{}

func NewFlatGenerator() *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) GenerateKey(metadata *KeyMetadata) string {
	id := uuid.New().String()
	if metadata == nil {
		return id
	}
	scope := "images"
	if metadata.Scope != "" {
		scope = sanitizePathComponent(metadata.Scope)
	}
	name := id
	if metadata.FileName != "" {
		name = fmt.Sprintf("%s_%s", id, sanitizeFilename(metadata.FileName))
	}
	return fmt.Sprintf("%s/%d/%d/%s", scope, metadata.ArticleID, metadata.OwnerID, name)
}

// GitLikeGenerator provides Git-style sharded keys:
// {scope}/objects/ab/cd1234ef5678_filename
type GitLikeGenerator struct {
	// ShardLength controls how many characters to use for sharding (default: 2)
	ShardLength int
}

func NewGitLikeGenerator() *GitLikeGenerator {
	return &GitLikeGenerator{
		ShardLength: 2,
	}
}

func (g *GitLikeGenerator) GenerateKey(metadata *KeyMetadata) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")

	shard := g.ShardLength
	if shard <= 0 || shard > len(id) {
		shard = 2
	}
	shardDir := id[:shard]
	filename := id[shard:]
	if metadata != nil && metadata.FileName != "" {
		filename = fmt.Sprintf("%s_%s", filename, sanitizeFilename(metadata.FileName))
	}

	scope := "images"
	if metadata != nil && metadata.Scope != "" {
		scope = sanitizePathComponent(metadata.Scope)
	}
	return fmt.Sprintf("%s/objects/%s/%s", scope, shardDir, filename)
}

// CustomFuncGenerator allows callers to provide their own key function
type CustomFuncGenerator struct {
	GenerateFunc func(metadata *KeyMetadata) string
}

func NewCustomFuncGenerator(fn func(metadata *KeyMetadata) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{GenerateFunc: fn}
}

func (g *CustomFuncGenerator) GenerateKey(metadata *KeyMetadata) string {
	return g.GenerateFunc(metadata)
}

// New returns the generator registered under name: "flat" or "git-like".
func New(name string) (Generator, error) {
	switch name {
	case "", "git-like":
		return NewGitLikeGenerator(), nil
	case "flat":
		return NewFlatGenerator(), nil
	}
	return nil, fmt.Errorf("unknown object key generator %q", name)
}

var unsafeChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

func sanitizeFilename(filename string) string {
	return unsafeChars.Replace(filename)
}

func sanitizePathComponent(component string) string {
	return strings.ToLower(unsafeChars.Replace(component))
}
