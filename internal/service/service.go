// Package service implements thread import, summary review and export.
package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/repository"
	"github.com/xiaot623/gogo/threadreview/internal/summarizer"
	"github.com/xiaot623/gogo/threadreview/policy"
)

type Service struct {
	store        store.Store
	summarizer   *summarizer.Selector
	policyEngine *policy.Engine
	jobs         *jobRegistry
	logger       *zap.Logger
	now          func() time.Time
}

func New(store store.Store, selector *summarizer.Selector, policyEngine *policy.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		summarizer:   selector,
		policyEngine: policyEngine,
		jobs:         newJobRegistry(defaultJobWorkers),
		logger:       logger.Named("service"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func userOr(user, fallback string) string {
	if user == "" {
		return fallback
	}
	return user
}
