package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const articleHTML = `<html><body>
<h1 id="firstHeading">Ada Lovelace</h1>
<div id="mw-content-text">
  <p>Ada Lovelace was a mathematician.<sup>[1]</sup></p>
  <h2>Early life</h2>
  <p>She was born in London.</p>
  <h2>References</h2>
  <ul><li>Some book</li></ul>
</div>
</body></html>`

func writeArticle(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ada.html")
	require.NoError(t, os.WriteFile(path, []byte(articleHTML), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStructureCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "structure", writeArticle(t))
	require.NoError(t, err)

	var content domain.StructuredContent
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Equal(t, "Ada Lovelace", content.Title)
	assert.Equal(t, []string{"Introduction", "Early life"}, content.Headings())
	require.NotNil(t, content.Sections[0].BodyText)
	assert.Equal(t, "Ada Lovelace was a mathematician.", *content.Sections[0].BodyText)
}

func TestStructureCommand_YAMLHeadings(t *testing.T) {
	out, err := runCLI(t, "structure", "--headings", "-o", "yaml", writeArticle(t))
	require.NoError(t, err)

	var decoded struct {
		Title    string   `yaml:"title"`
		Sections []string `yaml:"sections"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Ada Lovelace", decoded.Title)
	assert.Equal(t, []string{"Introduction", "Early life"}, decoded.Sections)
}

func TestStructureCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "structure", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = runCLI(t, "structure", "-o", "xml", writeArticle(t))
	assert.ErrorContains(t, err, "unsupported output format")
}

type stubHistoryRepo struct {
	domain.ArticleRepository
	items []domain.HistoryItem
	err   error
}

func (s stubHistoryRepo) ListHistory(context.Context) ([]domain.HistoryItem, error) {
	return s.items, s.err
}

func TestListHistory(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := stubHistoryRepo{items: []domain.HistoryItem{
		{ID: "01HZX3Q9W6N8J4KXG5T2M7R1AC", Title: "B", CreatedAt: created.Add(time.Hour)},
		{ID: "01HZX3Q9W6N8J4KXG5T2M7R1AB", Title: "A", CreatedAt: created},
	}}

	items, err := listHistory(context.Background(), repo, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Title)

	items, err = listHistory(context.Background(), stubHistoryRepo{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)

	_, err = listHistory(context.Background(), stubHistoryRepo{err: errors.New("db down")}, 0)
	assert.True(t, domain.HasCode(err, domain.CodeStorage))
}
