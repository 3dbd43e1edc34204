package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/Atomic996/Bougtobstore/internal/platform/metrics"
)

const (
	nsfwLabel = "nsfw"
	safeLabel = "safe"

	checkImage = "image"
	checkText  = "text"

	outcomeSafe     = "safe"
	outcomeUnsafe   = "unsafe"
	outcomeFailOpen = "fail_open"
)

// defaultCandidateLabels is the fixed label set sent to the zero-shot
// endpoint. The safe label must be present.
var defaultCandidateLabels = []string{
	safeLabel,
	"weapons",
	"drugs",
	"adult content",
	"gambling",
	"scam",
}

// Verdict is the single result shape consumed by the submission pipeline.
type Verdict struct {
	Safe   bool
	Reason string
}

type ClassifierConfig struct {
	ImageThreshold  float64
	TextThreshold   float64
	CheckTimeout    time.Duration
	MaxImageEdge    int
	JPEGQuality     int
	CandidateLabels []string
}

type imageClassifier interface {
	Classify(ctx context.Context, image []byte) ([]LabelScore, error)
}

type zeroShotClassifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) (ZeroShotResult, error)
}

// Classifier reduces two independent remote checks to one verdict. It is
// fail-open by policy: a sub-check that errors, times out, or returns a
// malformed response counts as safe, so a third-party outage never blocks a
// legitimate submission. Evaluate therefore returns no error.
type Classifier struct {
	images  imageClassifier
	texts   zeroShotClassifier
	cfg     ClassifierConfig
	logger  logger.Logger
	metrics *metrics.MetricsManager
}

// NewClassifier wires the two remote clients. metricsManager may be nil.
func NewClassifier(images imageClassifier, texts zeroShotClassifier, cfg ClassifierConfig, log logger.Logger, metricsManager *metrics.MetricsManager) *Classifier {
	if cfg.ImageThreshold <= 0 {
		cfg.ImageThreshold = 0.6
	}
	if cfg.TextThreshold <= 0 {
		cfg.TextThreshold = 0.5
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 8 * time.Second
	}
	if cfg.MaxImageEdge <= 0 {
		cfg.MaxImageEdge = 512
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = 50
	}
	if len(cfg.CandidateLabels) == 0 {
		cfg.CandidateLabels = defaultCandidateLabels
	}
	return &Classifier{
		images:  images,
		texts:   texts,
		cfg:     cfg,
		logger:  log,
		metrics: metricsManager,
	}
}

// Evaluate runs the image and text sub-checks concurrently and reduces them:
// unsafe if either is unsafe, with the image reason taking priority when both
// fail.
func (c *Classifier) Evaluate(ctx context.Context, title, description string, image []byte) Verdict {
	var (
		wg           sync.WaitGroup
		imageVerdict Verdict
		textVerdict  Verdict
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		imageVerdict = c.checkImage(ctx, image)
	}()
	go func() {
		defer wg.Done()
		textVerdict = c.checkText(ctx, title, description)
	}()
	wg.Wait()

	if !imageVerdict.Safe {
		return imageVerdict
	}
	if !textVerdict.Safe {
		return textVerdict
	}
	return Verdict{Safe: true}
}

func (c *Classifier) checkImage(ctx context.Context, image []byte) Verdict {
	start := time.Now()
	defer c.observeLatency(checkImage, start)

	payload, err := downscale(image, c.cfg.MaxImageEdge, c.cfg.JPEGQuality)
	if err != nil {
		// An undecodable image cannot be classified; fail open like any
		// other infrastructure problem.
		c.logger.Warnf("image moderation: failed to downscale image, allowing: %v", err)
		c.recordOutcome(checkImage, outcomeFailOpen)
		return Verdict{Safe: true}
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.cfg.CheckTimeout)
	defer cancel()

	scores, err := c.images.Classify(checkCtx, payload)
	if err != nil {
		c.logger.Warnf("image moderation: remote check failed, allowing: %v", err)
		c.recordOutcome(checkImage, outcomeFailOpen)
		return Verdict{Safe: true}
	}

	for _, entry := range scores {
		if entry.Label == nsfwLabel && entry.Score >= c.cfg.ImageThreshold {
			c.recordOutcome(checkImage, outcomeUnsafe)
			return Verdict{Safe: false, Reason: "the attached image contains explicit content"}
		}
	}
	c.recordOutcome(checkImage, outcomeSafe)
	return Verdict{Safe: true}
}

func (c *Classifier) checkText(ctx context.Context, title, description string) Verdict {
	start := time.Now()
	defer c.observeLatency(checkText, start)

	checkCtx, cancel := context.WithTimeout(ctx, c.cfg.CheckTimeout)
	defer cancel()

	result, err := c.texts.Classify(checkCtx, title+"\n"+description, c.cfg.CandidateLabels)
	if err != nil {
		c.logger.Warnf("text moderation: remote check failed, allowing: %v", err)
		c.recordOutcome(checkText, outcomeFailOpen)
		return Verdict{Safe: true}
	}

	label, score, ok := result.Top()
	if !ok {
		c.logger.Warnf("text moderation: empty response, allowing")
		c.recordOutcome(checkText, outcomeFailOpen)
		return Verdict{Safe: true}
	}
	if label != safeLabel && score > c.cfg.TextThreshold {
		c.recordOutcome(checkText, outcomeUnsafe)
		return Verdict{Safe: false, Reason: fmt.Sprintf("listing content was flagged as %s", label)}
	}
	c.recordOutcome(checkText, outcomeSafe)
	return Verdict{Safe: true}
}

func (c *Classifier) recordOutcome(check, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.ModerationChecksTotal.WithLabelValues(check, outcome).Inc()
}

func (c *Classifier) observeLatency(check string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ModerationLatency.WithLabelValues(check).Observe(time.Since(start).Seconds())
}
