package email

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

const qstashPublishBaseURL = "https://qstash.upstash.io/v2/publish/"

// QStashPublisher dispatches email jobs through the QStash message queue.
// Each job is published as JSON and delivered back to the email-worker
// endpoint after the requested delay.
type QStashPublisher struct {
	token      string
	workerURL  string
	httpClient *http.Client
}

// NewQStashPublisher creates a publisher targeting the given worker URL
func NewQStashPublisher(token, workerURL string) *QStashPublisher {
	return &QStashPublisher{
		token:      token,
		workerURL:  workerURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Dispatch publishes one email job to QStash
func (p *QStashPublisher) Dispatch(msg Message, delay time.Duration) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, qstashPublishBaseURL+p.workerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build publish request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	if delay > 0 {
		req.Header.Set("Upstash-Delay", fmt.Sprintf("%ds", int(delay.Seconds())))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish to qstash: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qstash publish returned %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// VerifyQStashSignature checks the Upstash-Signature header against the
// request body. The signature is an HS256 JWT whose body claim carries a
// base64url-encoded SHA-256 of the payload. Both the current and next
// signing keys are accepted so key rotation never drops jobs.
func VerifyQStashSignature(signature string, body []byte, signingKeys ...string) error {
	for _, key := range signingKeys {
		if key == "" {
			continue
		}
		if err := verifySignatureWithKey(signature, body, key); err == nil {
			return nil
		}
	}
	return apperrors.ErrTokenInvalid
}

func verifySignatureWithKey(signature string, body []byte, key string) error {
	token, err := jwt.Parse(signature, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("Upstash"))
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("unexpected claims type")
	}
	bodyClaim, _ := claims["body"].(string)

	sum := sha256.Sum256(body)
	expected := base64.URLEncoding.EncodeToString(sum[:])
	if strings.TrimRight(bodyClaim, "=") != strings.TrimRight(expected, "=") {
		return fmt.Errorf("body hash mismatch")
	}

	return nil
}
