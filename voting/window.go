// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"time"

	"github.com/danielhkuo/campaign-vote/models"
)

// Observe applies the lazy window transition: an open campaign whose end
// has passed becomes closed. Anything else is returned unchanged. It never
// opens a campaign.
func Observe(c models.Campaign, now time.Time) models.Campaign {
	if c.Status == models.StatusOpen && !now.Before(c.EndAt) {
		c.Status = models.StatusClosed
	}
	return c
}
