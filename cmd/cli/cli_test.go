package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihub/internal/auth"
	"unihub/internal/programs"
)

func run(t *testing.T, api, tokenPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--api", api, "--token-file", tokenPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestProgramsListSendsFlags(t *testing.T) {
	var got programs.Filter
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/programs/query", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"items":[{"id":4,"name_en":"Robotics","degree_type":"master","university_name_en":"TU Munich","qs_ranking":28}],"total":1,"limit":5,"offset":0}`))
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, filepath.Join(t.TempDir(), "token.json"),
		"programs", "list", "--city", "3,4", "--degree", "master", "--sort", "rankingQS", "-n", "5")
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4}, got.CityIDs)
	assert.Equal(t, []string{"master"}, got.DegreeTypes)
	assert.Equal(t, "rankingQS", got.SortBy)
	require.NotNil(t, got.Limit)
	assert.Equal(t, 5, *got.Limit)
	assert.Nil(t, got.Offset)

	assert.Contains(t, out, "Robotics")
	assert.Contains(t, out, "TU Munich")
	assert.Contains(t, out, "1-1 of 1")
}

func TestProgramsListSurfacesBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid argument: unknown sortBy \"fame\""}`))
	}))
	defer srv.Close()

	_, err := run(t, srv.URL, filepath.Join(t.TempDir(), "token.json"), "programs", "list", "--sort", "fame")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sortBy")
}

func TestProgramsShowRejectsBadID(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", filepath.Join(t.TempDir(), "token.json"), "programs", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid program id")
}

func TestTokenSignThenWhoami(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token.json")
	tokens := auth.TokenService{Secret: []byte("cli-secret"), Issuer: "unihub"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"open_id": claims.OpenID(),
			"email":   claims.Email,
			"role":    claims.Role,
		})
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, tokenPath,
		"token", "sign", "--sub", "dev-1", "--email", "dev@example.com", "--role", "admin", "--secret", "cli-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "dev-1 (admin)")

	out, err = run(t, srv.URL, tokenPath, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "dev-1 <dev@example.com> role=admin")

	_, err = run(t, srv.URL, tokenPath, "token", "clear")
	require.NoError(t, err)
	_, err = run(t, srv.URL, tokenPath, "whoami")
	assert.Error(t, err)
}

func TestLogsStatsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"total":7,"debug":0,"info":5,"warn":2,"error":0}`))
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, filepath.Join(t.TempDir(), "token.json"), "logs", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "7")
}
