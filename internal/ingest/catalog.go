package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/feed"
	"ReleaseTimeline/internal/heuristics"
)

// maxSummaryLength bounds the stored release summary.
const maxSummaryLength = 200

var catalogDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	time.RFC3339,
}

func parseCatalogDate(value string) (time.Time, error) {
	for _, layout := range catalogDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable publication date %q", value)
}

// IngestCatalog pulls the notable-models CSV dataset, keeps rows from
// tracked companies in language-adjacent domains, and upserts them as
// releases. Existing releases only receive auxiliary field updates; name,
// company, date and summary stay as first ingested.
func (p *Pipeline) IngestCatalog(ctx context.Context) (domain.ScrapeResult, error) {
	var result domain.ScrapeResult

	body, status, err := p.fetcher.Get(ctx, p.opts.CatalogURL)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Error fetching catalog: %v", err))
		return result, nil
	}
	if status != http.StatusOK {
		result.Errors = append(result.Errors, fmt.Sprintf("Catalog fetch returned status %d", status))
		return result, nil
	}

	records := feed.ParseCSV(body)
	p.logger.Debug("catalog parsed", "records", len(records))

	for _, record := range records {
		organization := record["Organization"]
		domainTag := record["Domain"]
		if !heuristics.IsTrackedCompany(organization) || !heuristics.IsRelevantDomain(domainTag) {
			continue
		}

		name := record["Model"]
		publication := record["Publication date"]
		if name == "" || publication == "" {
			continue
		}

		releaseDate, err := parseCatalogDate(publication)
		if err != nil {
			continue
		}

		task := record["Task"]
		abstract := record["Abstract"]
		link := record["Link"]

		company := heuristics.NormalizeCompany(organization)
		aux := domain.ReleaseAux{
			IsCodingRelated: heuristics.IsCodingRelated(task + " " + name + " " + abstract),
			Domain:          domainTag,
			Parameters:      heuristics.FormatParameters(record["Parameters"]),
		}

		existing, err := p.store.FindReleaseByIdentity(ctx, name, company, releaseDate)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing model %s: %v", name, err))
			continue
		}

		if existing != nil {
			if err := p.store.UpdateReleaseAux(ctx, existing.ID, aux); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Error processing model %s: %v", name, err))
				continue
			}
			result.Updated++
			continue
		}

		summary := feed.Truncate(abstract, maxSummaryLength)
		if summary == "" {
			summary = fmt.Sprintf("%s by %s", name, company)
		}

		release := domain.Release{
			Name:            name,
			Company:         company,
			Category:        heuristics.Categorize(domainTag + " " + task + " " + name),
			ReleaseDate:     releaseDate,
			Summary:         summary,
			Features:        []string{},
			DocsURL:         firstURL(link, "https://google.com/search?q="+url.QueryEscape(name+" "+company)),
			SourceURL:       firstURL(link, p.opts.CatalogURL),
			IsCodingRelated: aux.IsCodingRelated,
			Domain:          aux.Domain,
			Parameters:      aux.Parameters,
		}

		if _, err := p.store.CreateRelease(ctx, release); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing model %s: %v", name, err))
			continue
		}
		result.Added++
	}

	p.logger.Info("catalog scrape complete", "added", result.Added, "updated", result.Updated)
	return result, nil
}

func firstURL(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
