package newsletter

import "newsletter-feed/internal/domain/entity"

// LatestDTO is the proxy response for a sent campaign. Field names follow
// the historical endpoint so existing pages keep working.
type LatestDTO struct {
	Title       string `json:"title" example:"October Update"`
	URL         string `json:"url" example:"https://us6.campaign-archive.com/?u=abc&id=123"`
	SendTime    string `json:"send_time" example:"2026-10-01T09:00:00+00:00"`
	PreviewText string `json:"preview_text" example:"What we shipped this month"`
}

func toDTO(n *entity.Newsletter) LatestDTO {
	return LatestDTO{
		Title:       n.Title,
		URL:         n.URL,
		SendTime:    n.PublishedAt,
		PreviewText: n.Summary,
	}
}
