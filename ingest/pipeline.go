package ingest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/lawdoc"
)

var _ lawdoc.Processor = (*Pipeline)(nil)

// Pipeline normalizes and indexes fetched responses and discovers links
// in HTML pages.
type Pipeline struct {
	Normalizer *Normalizer
	Indexer    *Indexer
	Links      lawdoc.LinkExtractor

	// TokenCounter, when set, tallies tokens of stored documents.
	TokenCounter lawdoc.TokenCounter

	// Archive, when set, receives a copy of every stored document.
	Archive lawdoc.DocumentWriter

	Logger *slog.Logger
}

// Process implements lawdoc.Processor. Links are reported for every HTML
// response, including pages whose own content is skipped.
func (p *Pipeline) Process(ctx context.Context, task lawdoc.CrawlTask, resp *lawdoc.Response) *lawdoc.Outcome {
	logger := p.logger()
	outcome := &lawdoc.Outcome{Status: lawdoc.TaskSkipped}

	if p.Links != nil && lawdoc.ClassifyContent(resp.ContentType, resp.URL) == lawdoc.ContentHTML {
		links, err := p.Links.ExtractLinks(string(resp.Body), resp.URL)
		if err != nil {
			logger.Debug("extract links", "url", resp.URL, "err", err)
		}
		outcome.Links = links
	}

	doc, err := p.Normalizer.Normalize(ctx, resp)
	if err != nil {
		outcome.Err = err
		if lawdoc.ErrorCode(err) == lawdoc.ESKIPPED {
			logger.Debug("skip document", "url", resp.URL, "reason", lawdoc.ErrorMessage(err))
		} else {
			logger.Warn("normalize document", "url", resp.URL, "err", err)
		}
		return outcome
	}

	stored, err := p.Indexer.Index(ctx, doc, task.State)
	if err != nil {
		outcome.Err = err
		logger.Warn("index document", "url", doc.URL, "err", err)
		return outcome
	}

	outcome.Status = lawdoc.TaskStored
	outcome.Chunks = stored
	if p.TokenCounter != nil {
		if tokens, err := p.TokenCounter.CountTokens(ctx, doc.Content); err == nil {
			outcome.Tokens = tokens
		}
	}
	if p.Archive != nil {
		if err := p.Archive.WriteDocument(ctx, doc); err != nil {
			logger.Warn("archive document", "url", doc.URL, "err", err)
		}
	}
	logger.Info("stored document", "url", doc.URL, "title", doc.Title, "kind", doc.Kind.String(), "chunks", stored)
	return outcome
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
