// Package testutil provides shared test helpers for setting up collection
// documents on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleDoc is a small valid collection document: two published posts with
// distinct categories and publish dates.
const SampleDoc = `{
  "meta": {"version": 1, "locale": "pt-BR"},
  "posts": [
    {
      "id": "falha-em-motores",
      "slug": "falha-em-motores",
      "title": "Falha em Motores a Diesel",
      "publishedAt": "2024-03-05T10:00:00Z",
      "summary": "Como diagnosticar falhas comuns.",
      "content": "# Diagnóstico\n\nVerifique o filtro de combustível.",
      "tags": ["motor", "diesel"],
      "categories": ["Mecânica"]
    },
    {
      "id": "manutencao-preventiva",
      "slug": "manutencao-preventiva",
      "title": "Manutenção Preventiva",
      "publishedAt": "2024-01-10T08:00:00Z",
      "summary": "Checklist mensal.",
      "content": "- Óleo\n- Filtros",
      "tags": ["manutenção"],
      "categories": ["Elétrica"]
    }
  ]
}`

// WriteCollection writes doc into a fresh temp directory and returns the file
// path. The directory doubles as a site root in tests.
func WriteCollection(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog-posts.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
