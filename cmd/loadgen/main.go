// Command loadgen exercises the public HTTP API with synthetic traffic:
// it registers fake users, logs them in, creates posts and toggles likes on
// random posts. It talks only to the HTTP surface, never to the database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var words = []string{
	"coffee", "morning", "sunset", "weekend", "project", "garden", "music",
	"travel", "kitchen", "bicycle", "mountain", "river", "friend", "dinner",
	"winter", "summer", "reading", "running", "painting", "market",
}

func sentence(rng *rand.Rand) string {
	n := 6 + rng.Intn(8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.Intn(len(words))]
	}
	return strings.Join(parts, " ") + "."
}

func paragraph(rng *rand.Rand) string {
	n := 3 + rng.Intn(8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = sentence(rng)
	}
	return strings.Join(parts, " ")
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) post(path, token string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}

func (c *client) get(path, token string, out interface{}) (int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}

// runUser plays one synthetic user end to end: register, login, post, like.
func runUser(c *client, cfg *Config, rng *rand.Rand) error {
	username := "bot_" + uuid.NewString()[:8]
	password := uuid.NewString()

	creds := map[string]string{"username": username, "password": password}
	status, err := c.post("register/", "", creds, nil)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register: unexpected status %d", status)
	}

	var login struct {
		Tokens struct {
			Access string `json:"access"`
		} `json:"tokens"`
	}
	status, err = c.post("", "", creds, &login)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK || login.Tokens.Access == "" {
		return fmt.Errorf("login: unexpected status %d", status)
	}
	token := login.Tokens.Access

	for i := 0; i < 1+rng.Intn(cfg.MaxPostsPerUser); i++ {
		var created struct {
			ID int `json:"id"`
		}
		status, err = c.post("create/", token, map[string]string{"content": paragraph(rng)}, &created)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if status != http.StatusCreated {
			return fmt.Errorf("create post: unexpected status %d", status)
		}
		log.Printf("user %s created post %d", username, created.ID)
	}

	var posts []struct {
		ID int `json:"id"`
	}
	if _, err = c.get("posts/", token, &posts); err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return nil
	}

	for i := 0; i < 1+rng.Intn(cfg.MaxLikesPerUser); i++ {
		target := posts[rng.Intn(len(posts))].ID
		path := fmt.Sprintf("posts/%d/like/", target)
		if _, err := c.post(path, token, struct{}{}, nil); err != nil {
			return fmt.Errorf("like post %d: %w", target, err)
		}
		log.Printf("user %s toggled like on post %d", username, target)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "loadgen.yaml", "path to loadgen config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	c := &client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for range jobs {
				if err := runUser(c, cfg, rng); err != nil {
					log.Printf("user run failed: %v", err)
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}

	for i := 0; i < cfg.NumberOfUsers; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
