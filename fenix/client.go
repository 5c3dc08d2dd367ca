package fenix

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/socialsoftware/quiz_tutor/configs"
)

// Client talks to the FenixEdu-compatible identity provider of the university.
// The backend only consumes three things from it: the OAuth code exchange, the
// authenticated person, and the person's attending/teaching courses.
type Client struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	CallbackURL    string

	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:        strings.TrimRight(config.Config("FENIX_BASE_URL"), "/"),
		ConsumerKey:    config.Config("FENIX_CONSUMER_KEY"),
		ConsumerSecret: config.Config("FENIX_CONSUMER_SECRET"),
		CallbackURL:    config.Config("FENIX_CALLBACK_URL"),
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

type Person struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Course struct {
	Name         string `json:"name"`
	Acronym      string `json:"acronym"`
	AcademicTerm string `json:"academicTerm"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type personCoursesResponse struct {
	Attending []Course `json:"attending"`
	Teaching  []Course `json:"teaching"`
}

// AuthorizeURL builds the provider page the frontend redirects the user to.
func (c *Client) AuthorizeURL() string {
	query := url.Values{}
	query.Set("client_id", c.ConsumerKey)
	query.Set("redirect_uri", c.CallbackURL)
	return c.BaseURL + "/oauth/userdialog?" + query.Encode()
}

// AccessTokenFromCode exchanges the one-time OAuth code the frontend obtained
// during the provider redirect for an access token.
func (c *Client) AccessTokenFromCode(code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.ConsumerKey)
	form.Set("client_secret", c.ConsumerSecret)
	form.Set("redirect_uri", c.CallbackURL)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequest("POST", c.BaseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fenix token endpoint returned %s", resp.Status)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("fenix token endpoint returned an empty access token")
	}
	return token.AccessToken, nil
}

// GetPerson fetches the authenticated user's identity.
func (c *Client) GetPerson(accessToken string) (*Person, error) {
	var person Person
	if err := c.get("/api/fenix/v1/person", accessToken, &person); err != nil {
		return nil, err
	}
	if person.Username == "" {
		return nil, fmt.Errorf("fenix person endpoint returned no username")
	}
	return &person, nil
}

// GetPersonCourses fetches the courses the person attends and teaches in the
// current academic term.
func (c *Client) GetPersonCourses(accessToken string) (attending, teaching []Course, err error) {
	var courses personCoursesResponse
	if err := c.get("/api/fenix/v1/person/courses", accessToken, &courses); err != nil {
		return nil, nil, err
	}
	return courses.Attending, courses.Teaching, nil
}

func (c *Client) get(path, accessToken string, out interface{}) error {
	req, err := http.NewRequest("GET", c.BaseURL+path+"?access_token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fenix API %s returned %s", path, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
