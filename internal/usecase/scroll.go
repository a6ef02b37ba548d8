package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/nafijninja/genx/internal/domain"
)

var imageSourcePrefixes = []string{"data:image", "https"}

// ScrollToLoad scrolls the page one viewport at a time so lazily rendered
// gallery items get loaded. It stops after maxRounds, or as soon as the
// scroll height stops growing, and always returns to the top. The returned
// count is the number of rounds performed.
func ScrollToLoad(ctx context.Context, page domain.BrowserPage, maxRounds int, pause time.Duration) (int, error) {
	var previous int64 = -1
	rounds := 0
	for rounds < maxRounds {
		height, err := page.ScrollStep(ctx)
		if err != nil {
			return rounds, err
		}
		rounds++

		if err := sleep(ctx, pause); err != nil {
			return rounds, err
		}
		if height <= previous {
			break
		}
		previous = height
	}

	return rounds, page.ScrollToTop(ctx)
}

// FilterImageSources keeps sources that are inline images or https URLs,
// preserving order and duplicates.
func FilterImageSources(srcs []string) []string {
	images := make([]string, 0, len(srcs))
	for _, src := range srcs {
		for _, prefix := range imageSourcePrefixes {
			if strings.HasPrefix(src, prefix) {
				images = append(images, src)
				break
			}
		}
	}
	return images
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
