package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
)

func (s *E2ETestSuite) Test01_RegisterAlice() {
	body := `{"username":"alice","password":"alicepass"}`
	resp, err := http.Post(s.baseURL+"/api/register/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	var user map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&user)
	s.Equal("alice", user["username"])
	s.NotContains(user, "passwordHash")
}

func (s *E2ETestSuite) Test02_RegisterAliceConflict() {
	body := `{"username":"alice","password":"alicepass"}`
	resp, err := http.Post(s.baseURL+"/api/register/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_RegisterShortUsername() {
	body := `{"username":"ab","password":"somepass"}`
	resp, err := http.Post(s.baseURL+"/api/register/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test04_LoginAliceInvalid() {
	body := `{"username":"alice","password":"wrong"}`
	resp, err := http.Post(s.baseURL+"/api/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test05_LoginAliceValid() {
	body := `{"username":"alice","password":"alicepass"}`
	resp, err := http.Post(s.baseURL+"/api/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var data struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Tokens   struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	json.NewDecoder(resp.Body).Decode(&data)
	s.Equal("alice", data.Username)
	s.NotEmpty(data.Tokens.Access)
	s.NotEmpty(data.Tokens.Refresh)
	s.aliceID = data.ID
	s.aliceToken = data.Tokens.Access
	s.aliceRefresh = data.Tokens.Refresh
}

func (s *E2ETestSuite) Test06_RegisterAndLoginBob() {
	body := `{"username":"bob","password":"bobpass"}`
	resp, err := http.Post(s.baseURL+"/api/register/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(s.baseURL+"/api/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var data struct {
		ID     int `json:"id"`
		Tokens struct {
			Access string `json:"access"`
		} `json:"tokens"`
	}
	json.NewDecoder(resp.Body).Decode(&data)
	s.bobID = data.ID
	s.bobToken = data.Tokens.Access
	s.NotEmpty(s.bobToken)
}

func (s *E2ETestSuite) Test07_RefreshRotation() {
	body, _ := json.Marshal(map[string]string{"refresh": s.aliceRefresh})
	resp, err := http.Post(s.baseURL+"/api/token/refresh/", "application/json", bytes.NewBuffer(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var data struct {
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	json.NewDecoder(resp.Body).Decode(&data)
	s.NotEmpty(data.Tokens.Access)
	s.NotEmpty(data.Tokens.Refresh)

	// The previous refresh token was rotated away and must be rejected now
	resp2, err := http.Post(s.baseURL+"/api/token/refresh/", "application/json", bytes.NewBuffer(body))
	s.NoError(err)
	defer resp2.Body.Close()
	s.Equal(http.StatusUnauthorized, resp2.StatusCode)

	s.aliceRefresh = data.Tokens.Refresh
	s.aliceToken = data.Tokens.Access
}

func (s *E2ETestSuite) Test08_ProtectedWithoutToken() {
	resp, err := http.Get(s.baseURL + "/api/posts/")
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test09_ProtectedWithGarbageToken() {
	req, _ := http.NewRequest("GET", s.baseURL+"/api/posts/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test10_ListUsers() {
	req, _ := http.NewRequest("GET", s.baseURL+"/api/users/", nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var users []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&users)
	s.GreaterOrEqual(len(users), 2)
}

func (s *E2ETestSuite) Test11_LoginViaTokenAlias() {
	body := `{"username":"alice","password":"alicepass"}`
	resp, err := http.Post(s.baseURL+"/api/token/", "application/json", bytes.NewBufferString(body))
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var data struct {
		Username string `json:"username"`
		Tokens   struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	json.NewDecoder(resp.Body).Decode(&data)
	s.Equal("alice", data.Username)
	s.NotEmpty(data.Tokens.Access)
	s.NotEmpty(data.Tokens.Refresh)
	s.aliceToken = data.Tokens.Access
	s.aliceRefresh = data.Tokens.Refresh
}
