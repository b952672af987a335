package service

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/pkg/logger"
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type SMSService struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewSMSService(cfg config.SMSConfig) *SMSService {
	return &SMSService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) OTPTTL() time.Duration {
	return time.Duration(s.cfg.OTPTTLMin) * time.Minute
}

// GenerateOTP returns a 6-digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendOTP posts the code to the configured SMS gateway. Without a gateway the
// code is only logged, which is what dev and CI run on.
func (s *SMSService) SendOTP(phone, code string) error {
	if s.cfg.GatewayURL == "" {
		logger.Log.Info("SMS gateway not configured, logging OTP instead",
			zap.String("phone", phone),
			zap.String("code", code))
		return nil
	}

	payload := map[string]string{
		"to":      phone,
		"sender":  s.cfg.SenderID,
		"message": fmt.Sprintf("Your Bit By Bit login code is %s. It expires in %d minutes.", code, s.cfg.OTPTTLMin),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, s.cfg.GatewayURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS gateway error (status %d): %s", resp.StatusCode, string(b))
	}
	return nil
}
