// Seeds a running server with a demo account and sample notes.
//
//	go run scripts/seed-demo.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

var apiBase = envOr("API_BASE", "http://localhost:8080")

type DemoUser struct {
	Email    string
	Password string
	Token    string
}

type LoginResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func signup(email, password string) error {
	body, _ := json.Marshal(map[string]string{
		"firstName": "Demo",
		"lastName":  "User",
		"email":     email,
		"password":  password,
	})

	resp, err := http.Post(apiBase+"/auth/signup", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// 409 means the demo account already exists, which is fine
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("signup failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func login(email, password string) (*DemoUser, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(apiBase+"/auth/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &DemoUser{Email: email, Password: password, Token: result.AccessToken}, nil
}

func createNote(token string, note map[string]interface{}) error {
	body, _ := json.Marshal(note)

	req, _ := http.NewRequest("POST", apiBase+"/api/notes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create note failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func archiveRandomNote(token string) error {
	req, _ := http.NewRequest("GET", apiBase+"/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var page struct {
		Notes []struct {
			ID string `json:"id"`
		} `json:"notes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(page.Notes) == 0 {
		return nil
	}

	id := page.Notes[rand.Intn(len(page.Notes))].ID
	req, _ = http.NewRequest("PATCH", apiBase+"/api/notes/"+id+"/archive", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("archive failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func main() {
	email := envOr("DEMO_EMAIL", "demo@notehub.local")
	password := envOr("DEMO_PASSWORD", "demo-password")

	fmt.Printf("Seeding %s as %s\n", apiBase, email)

	if err := signup(email, password); err != nil {
		fmt.Fprintf(os.Stderr, "signup: %v\n", err)
		os.Exit(1)
	}

	user, err := login(email, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	reminderAt := time.Now().Add(2 * time.Minute).Format(time.RFC3339)
	samples := []map[string]interface{}{
		{
			"name":     "Weekly groceries",
			"content":  "milk, eggs, bread, coffee",
			"tags":     []string{"errands"},
			"priority": "low",
		},
		{
			"name":     "Project kickoff prep",
			"content":  "agenda, stakeholder list, timeline draft",
			"tags":     []string{"work", "urgent"},
			"priority": "high",
		},
		{
			"name":       "Call the dentist",
			"content":    "reschedule the cleaning",
			"priority":   "medium",
			"reminderAt": reminderAt,
		},
		{
			"name":    "Book recommendations",
			"content": "ask Sam about that systems design book",
			"tags":    []string{"reading"},
		},
	}

	for _, note := range samples {
		if err := createNote(user.Token, note); err != nil {
			fmt.Fprintf(os.Stderr, "seed note: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  created %q\n", note["name"])
	}

	if err := archiveRandomNote(user.Token); err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. One note was archived so the archive view has content.")
	fmt.Println("A reminder fires in ~2 minutes; connect to /api/ws to watch it.")
}
