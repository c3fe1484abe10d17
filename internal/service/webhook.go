package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

const webhookTimeout = 10 * time.Second

// NotifyRunReport posts a finished run's report to webhookURL.
// It is intended to be called in a goroutine so the API response is not blocked.
func NotifyRunReport(webhookURL string, report *domain.BatchReport, logger *zap.Logger) {
	if webhookURL == "" || report == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"event":  "publish_run_finished",
		"report": report,
	})
	if err != nil {
		logger.Warn("Webhook: failed to marshal run report", zap.Error(err))
		return
	}
	client := &http.Client{Timeout: webhookTimeout}
	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		logger.Warn("Webhook: failed to create request", zap.String("url", webhookURL), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("Webhook: run report request failed", zap.String("url", webhookURL), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Webhook: run report returned non-2xx",
			zap.String("url", webhookURL), zap.Int("status", resp.StatusCode))
		return
	}
	logger.Info("Webhook: run report sent",
		zap.String("url", webhookURL),
		zap.String("run_id", report.RunID.String()),
		zap.Int("status", resp.StatusCode))
}
