package fenix

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return &Client{
		BaseURL:        serverURL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		CallbackURL:    "http://localhost/callback",
		HTTPClient:     &http.Client{Timeout: 2 * time.Second},
	}
}

func TestClient_AuthorizeURL(t *testing.T) {
	url := testClient("https://fenix.tecnico.ulisboa.pt").AuthorizeURL()
	require.Contains(t, url, "https://fenix.tecnico.ulisboa.pt/oauth/userdialog?")
	require.Contains(t, url, "client_id=key")
	require.Contains(t, url, "redirect_uri=http%3A%2F%2Flocalhost%2Fcallback")
}

func TestClient_AccessTokenFromCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/oauth/access_token", r.URL.Path)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "key", r.PostForm.Get("client_id"))
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "the-code", r.PostForm.Get("code"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok123","expires_in":3600}`))
	}))
	defer server.Close()

	token, err := testClient(server.URL).AccessTokenFromCode("the-code")
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
}

func TestClient_AccessTokenFromCode_BadCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).AccessTokenFromCode("expired")
	require.Error(t, err)
}

func TestClient_GetPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/fenix/v1/person", r.URL.Path)
		require.Equal(t, "tok123", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Ana Silva","username":"ist100001","email":"ana@tecnico.pt"}`))
	}))
	defer server.Close()

	person, err := testClient(server.URL).GetPerson("tok123")
	require.NoError(t, err)
	require.Equal(t, "ist100001", person.Username)
	require.Equal(t, "Ana Silva", person.Name)
}

func TestClient_GetPerson_MissingUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetPerson("tok123")
	require.Error(t, err)
}

func TestClient_GetPersonCourses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/fenix/v1/person/courses", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"attending":[{"name":"Software Architecture","acronym":"ASof","academicTerm":"2019/2020"}],
			"teaching":[{"name":"Distributed Systems","acronym":"SD","academicTerm":"2019/2020"}]
		}`))
	}))
	defer server.Close()

	attending, teaching, err := testClient(server.URL).GetPersonCourses("tok123")
	require.NoError(t, err)
	require.Len(t, attending, 1)
	require.Equal(t, "ASof", attending[0].Acronym)
	require.Len(t, teaching, 1)
	require.Equal(t, "SD", teaching[0].Acronym)
}
