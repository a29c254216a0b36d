// Command smoke walks the confirmation flow against a running front end:
// it loads the confirm page for a token, presses Confirm and reports
// where the front end sends the user.
//
//	FRONTEND_URL=http://localhost:8080 go run ./cmd/smoke <token>
package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 2 {
		fmt.Println("usage: smoke <token>")
		os.Exit(2)
	}
	token := os.Args[1]

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	confirmURL := baseURL + "/confirm/" + url.PathEscape(token)

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	fmt.Println("1. Loading confirm page...")
	if !expect(client, http.MethodGet, confirmURL, http.StatusOK) {
		fmt.Println("FAILED: Load confirm page")
		os.Exit(1)
	}
	fmt.Println("PASSED: Load confirm page")

	fmt.Println("2. Confirming account...")
	location, ok := submit(client, confirmURL)
	if !ok {
		fmt.Println("FAILED: Confirm")
		os.Exit(1)
	}
	fmt.Printf("Redirected to %s\n", location)

	fmt.Println("3. Loading landing page...")
	if !expect(client, http.MethodGet, baseURL+location, http.StatusOK) {
		fmt.Println("FAILED: Load landing page")
		os.Exit(1)
	}

	if location != "/success" {
		fmt.Println("FAILED: Account was not confirmed")
		os.Exit(1)
	}
	fmt.Println("PASSED: Account confirmed")
}

func submit(client *http.Client, target string) (string, bool) {
	resp, err := client.Post(target, "application/x-www-form-urlencoded", nil)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return "", false
	}
	return resp.Header.Get("Location"), true
}

func expect(client *http.Client, method, target string, status int) bool {
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != status {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	return true
}
