package app

import (
	"context"
	"slices"

	"roxtor-ops/database"
	"roxtor-ops/models"
	"roxtor-ops/radar"
)

func (c *Controller) Leads() []models.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.state.Leads)
}

// AnalyzeLead runs the chat through the extractor and stores the lead on
// success. Nothing is stored when extraction fails.
func (c *Controller) AnalyzeLead(ctx context.Context, text, source string) (models.Lead, error) {
	settings := c.Settings()
	if source == "" && len(settings.Stores) > 0 {
		source = settings.Stores[0].ID
	}
	req := radar.LeadRequest{Text: text, Rate: settings.CurrentBcvRate, Tone: settings.AITone}
	lead, err := radar.Analyze(ctx, c.ai.Extractor, req, source, c.newID(), c.now())
	if err != nil {
		c.log.WithError(err).Warn("lead analysis failed")
		return models.Lead{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state.clone()
	next.Leads = append([]models.Lead{lead}, next.Leads...)
	if err := c.commit(ctx, next, database.KeyLeads); err != nil {
		return models.Lead{}, err
	}
	c.log.WithField("lead", lead.ID).WithField("status", lead.Status).Info("lead captured")
	return lead, nil
}

func (c *Controller) DeleteLead(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.state.Leads, func(l models.Lead) bool { return l.ID == id })
	if i < 0 {
		return ErrLeadNotFound
	}
	next := c.state.clone()
	next.Leads = slices.Delete(next.Leads, i, i+1)
	return c.commit(ctx, next, database.KeyLeads)
}

// SpeakLead synthesizes the lead's suggested reply. Failures are logged and
// returned; nothing is stored either way.
func (c *Controller) SpeakLead(ctx context.Context, id string) ([]byte, error) {
	c.mu.RLock()
	i := slices.IndexFunc(c.state.Leads, func(l models.Lead) bool { return l.ID == id })
	var lead models.Lead
	if i >= 0 {
		lead = c.state.Leads[i]
	}
	tone := c.state.Settings.AITone
	c.mu.RUnlock()
	if i < 0 {
		return nil, ErrLeadNotFound
	}

	audio, err := c.ai.Speaker.Speak(ctx, lead.SuggestedAction, tone)
	if err != nil {
		c.log.WithError(err).WithField("lead", id).Warn("speech synthesis failed")
		return nil, err
	}
	return audio, nil
}
