package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

type postResponse struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Content   string `json:"content"`
	Likes     int    `json:"likes"`
	LikedBy   []int  `json:"likedBy"`
	CreatedAt string `json:"createdAt"`
}

func (s *E2ETestSuite) doJSON(method, path, token string, body interface{}, out interface{}) *http.Response {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req, err := http.NewRequest(method, s.baseURL+path, bytes.NewReader(payload))
	s.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp
}

func (s *E2ETestSuite) Test20_CreatePost() {
	var post postResponse
	resp := s.doJSON("POST", "/api/create/", s.aliceToken,
		map[string]string{"content": "My first post"}, &post)
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.True(post.ID > 0)
	s.Equal(s.aliceID, post.UserID)
	s.Equal(0, post.Likes)
	s.Empty(post.LikedBy)
	s.createdPostID = post.ID
}

func (s *E2ETestSuite) Test21_CreatePostEmptyContent() {
	resp := s.doJSON("POST", "/api/create/", s.aliceToken,
		map[string]string{"content": ""}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test22_ListPosts() {
	var posts []postResponse
	resp := s.doJSON("GET", "/api/posts/", s.bobToken, nil, &posts)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.GreaterOrEqual(len(posts), 1)
}

func (s *E2ETestSuite) Test23_LikePost() {
	var post postResponse
	resp := s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
		s.bobToken, struct{}{}, &post)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(1, post.Likes)
	s.Contains(post.LikedBy, s.bobID)
	s.Len(post.LikedBy, post.Likes)
}

func (s *E2ETestSuite) Test24_UnlikePostRestoresState() {
	var post postResponse
	resp := s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
		s.bobToken, struct{}{}, &post)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(0, post.Likes)
	s.NotContains(post.LikedBy, s.bobID)
	s.Len(post.LikedBy, post.Likes)
}

func (s *E2ETestSuite) Test25_TwoUsersLikeSamePost() {
	var post postResponse
	resp := s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
		s.aliceToken, struct{}{}, &post)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
		s.bobToken, struct{}{}, &post)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(2, post.Likes)
	s.Contains(post.LikedBy, s.aliceID)
	s.Contains(post.LikedBy, s.bobID)
}

func (s *E2ETestSuite) Test26_ConcurrentTogglesKeepCounterConsistent() {
	// An odd number of toggles per user nets out to one like each; the
	// counter must match the membership size whatever the interleaving.
	var wg sync.WaitGroup
	for _, token := range []string{s.aliceToken, s.bobToken} {
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(tok string) {
				defer wg.Done()
				s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
					tok, struct{}{}, nil)
			}(token)
		}
	}
	wg.Wait()

	var posts []postResponse
	resp := s.doJSON("GET", "/api/posts/", s.aliceToken, nil, &posts)
	s.Equal(http.StatusOK, resp.StatusCode)
	for _, p := range posts {
		if p.ID == s.createdPostID {
			s.Len(p.LikedBy, p.Likes)
			// Both users started liked (Test25) and toggled 3 more times: unliked
			s.Equal(0, p.Likes)
			return
		}
	}
	s.Fail("created post missing from list")
}

func (s *E2ETestSuite) Test27_LikeMissingPost() {
	resp := s.doJSON("POST", "/api/posts/999999/like/", s.aliceToken, struct{}{}, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *E2ETestSuite) Test28_LikeInvalidPostID() {
	resp := s.doJSON("POST", "/api/posts/abc/like/", s.aliceToken, struct{}{}, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
