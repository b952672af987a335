package service

import (
	"bitbybit_backend/internal/config"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultLookupURL = "https://identitytoolkit.googleapis.com/v1/accounts:lookup"

type firebaseLookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		PhoneNumber string `json:"phoneNumber"`
	} `json:"users"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// lookupFirebasePhone validates a Firebase phone-auth ID token through the
// identitytoolkit lookup endpoint and returns the phone number bound to it.
func lookupFirebasePhone(cfg config.FirebaseConfig, idToken string) (string, error) {
	lookupURL := cfg.LookupURL
	if lookupURL == "" {
		lookupURL = defaultLookupURL
	}

	body, _ := json.Marshal(map[string]string{"idToken": idToken})
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s?key=%s", lookupURL, cfg.APIKey), bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("firebase lookup error (status %d): %s", resp.StatusCode, string(b))
	}

	var lookup firebaseLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return "", err
	}
	if lookup.Error != nil {
		return "", fmt.Errorf("firebase lookup error: %s", lookup.Error.Message)
	}
	if len(lookup.Users) == 0 {
		return "", fmt.Errorf("firebase token is not bound to any account")
	}

	return lookup.Users[0].PhoneNumber, nil
}
