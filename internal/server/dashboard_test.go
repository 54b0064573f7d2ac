package server

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDashboardStampsNonce(t *testing.T) {
	page, err := renderDashboard("abc123")
	require.NoError(t, err)

	out := string(page)
	assert.Contains(t, out, `<script nonce="abc123">`)
	assert.Contains(t, out, `<style nonce="abc123">`)
	assert.Contains(t, out, "OG Glass Studio")
}

func TestRenderDashboardClonesTemplate(t *testing.T) {
	first, err := renderDashboard("first")
	require.NoError(t, err)
	second, err := renderDashboard("second")
	require.NoError(t, err)

	assert.NotContains(t, string(second), "first")
	assert.Equal(t, 2, strings.Count(string(first), `nonce="first"`))
	assert.Equal(t, strings.Count(string(first), "nonce="), strings.Count(string(second), "nonce="))
}

func TestRenderDashboardWithoutNonce(t *testing.T) {
	page, err := renderDashboard("")
	require.NoError(t, err)
	assert.NotContains(t, string(page), "nonce=")
}

func TestDashboardRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	match := regexp.MustCompile(`'nonce-([^']+)'`).FindStringSubmatch(rec.Header().Get("Content-Security-Policy"))
	require.Len(t, match, 2)
	assert.Contains(t, rec.Body.String(), `nonce="`+match[1]+`"`)

	assert.Equal(t, http.StatusNotFound, do(t, srv.Handler(), http.MethodGet, "/missing", nil).Code)
}
