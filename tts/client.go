package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Client is the provider-agnostic synthesis orchestrator. It delegates
// per-utterance work to its Provider and handles batching, pair stitching,
// and merging. All operations are synchronous and process items strictly in
// input order; a failure part-way through aborts the whole operation rather
// than returning partial results.
type Client struct {
	provider Provider
	stitcher Stitcher
}

// NewClient returns a Client backed by provider and stitcher.
func NewClient(provider Provider, stitcher Stitcher) *Client {
	return &Client{provider: provider, stitcher: stitcher}
}

// Synthesize synthesizes a single text to an audio file.
func (c *Client) Synthesize(ctx context.Context, req SynthesisRequest, outputPath string) (SynthesisResult, error) {
	if err := ValidateRequest(req); err != nil {
		return SynthesisResult{}, err
	}
	return c.provider.Synthesize(ctx, req, outputPath)
}

// SynthesizeBatch synthesizes multiple texts into outputDir. With
// SeparateFiles each request gets its own content-addressed file; with
// SingleMergedFile all segments are stitched into one file with pauseMs of
// silence between them and a single result is returned.
func (c *Client) SynthesizeBatch(ctx context.Context, requests []SynthesisRequest, outputDir string, strategy MergeStrategy, pauseMs int) ([]SynthesisResult, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	for _, req := range requests {
		if err := ValidateRequest(req); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	if strategy == SeparateFiles {
		return c.batchSeparate(ctx, requests, outputDir)
	}
	return c.batchMerged(ctx, requests, outputDir, pauseMs)
}

func (c *Client) batchSeparate(ctx context.Context, requests []SynthesisRequest, outputDir string) ([]SynthesisResult, error) {
	results := make([]SynthesisResult, 0, len(requests))
	for _, req := range requests {
		path := filepath.Join(outputDir, Filename(req.Text))
		result, err := c.provider.Synthesize(ctx, req, path)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Client) batchMerged(ctx context.Context, requests []SynthesisRequest, outputDir string, pauseMs int) ([]SynthesisResult, error) {
	scratch, err := os.MkdirTemp("", "langlearn-batch-")
	if err != nil {
		return nil, fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	paths := make([]string, 0, len(requests))
	texts := make([]string, 0, len(requests))
	// The merged result reports the first item's resolved voice. For a
	// mixed-voice batch this is a simplification, kept as documented
	// behavior.
	canonicalVoice := ""
	for i, req := range requests {
		path := filepath.Join(scratch, fmt.Sprintf("seg_%04d%s", i, AudioExt))
		result, err := c.provider.Synthesize(ctx, req, path)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			canonicalVoice = result.VoiceName
		}
		paths = append(paths, path)
		texts = append(texts, req.Text)
	}

	combined := strings.Join(texts, " | ")
	outPath := filepath.Join(outputDir, FilenameWithPrefix(combined, "batch_"))
	if err := c.stitcher.Stitch(ctx, paths, outPath, pauseMs); err != nil {
		return nil, err
	}
	log.Debug("merged batch", "items", len(requests), "output", outPath)

	return []SynthesisResult{{
		Path:      outPath,
		Text:      combined,
		VoiceName: canonicalVoice,
	}}, nil
}

// SynthesizePair synthesizes two texts independently and stitches them into
// one file with pauseMs of silence in between, first text first.
func (c *Client) SynthesizePair(ctx context.Context, text1 string, req1 SynthesisRequest, text2 string, req2 SynthesisRequest, outputPath string, pauseMs int) (SynthesisResult, error) {
	for _, req := range []SynthesisRequest{req1, req2} {
		if err := ValidateRequest(req); err != nil {
			return SynthesisResult{}, err
		}
	}

	scratch, err := os.MkdirTemp("", "langlearn-pair-")
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	path1 := filepath.Join(scratch, "part1"+AudioExt)
	path2 := filepath.Join(scratch, "part2"+AudioExt)

	result1, err := c.provider.Synthesize(ctx, req1, path1)
	if err != nil {
		return SynthesisResult{}, err
	}
	result2, err := c.provider.Synthesize(ctx, req2, path2)
	if err != nil {
		return SynthesisResult{}, err
	}

	if err := c.stitcher.Stitch(ctx, []string{path1, path2}, outputPath, pauseMs); err != nil {
		return SynthesisResult{}, err
	}

	return SynthesisResult{
		Path:      outputPath,
		Text:      text1 + " | " + text2,
		VoiceName: result1.VoiceName + "+" + result2.VoiceName,
	}, nil
}

// SynthesizePairBatch synthesizes multiple pairs into outputDir. With
// SeparateFiles each pair becomes one stitched file; with SingleMergedFile
// all pairs are stitched into one file, with the same pauseMs governing
// both intra-pair and inter-pair silence.
func (c *Client) SynthesizePairBatch(ctx context.Context, pairs []Pair, outputDir string, strategy MergeStrategy, pauseMs int) ([]SynthesisResult, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	if strategy == SeparateFiles {
		return c.pairBatchSeparate(ctx, pairs, outputDir, pauseMs)
	}
	return c.pairBatchMerged(ctx, pairs, outputDir, pauseMs)
}

func (c *Client) pairBatchSeparate(ctx context.Context, pairs []Pair, outputDir string, pauseMs int) ([]SynthesisResult, error) {
	results := make([]SynthesisResult, 0, len(pairs))
	for _, pair := range pairs {
		combined := pair.First.Text + "_" + pair.Second.Text
		outPath := filepath.Join(outputDir, FilenameWithPrefix(combined, "pair_"))
		result, err := c.SynthesizePair(ctx, pair.First.Text, pair.First, pair.Second.Text, pair.Second, outPath, pauseMs)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Client) pairBatchMerged(ctx context.Context, pairs []Pair, outputDir string, pauseMs int) ([]SynthesisResult, error) {
	scratch, err := os.MkdirTemp("", "langlearn-pairs-")
	if err != nil {
		return nil, fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	paths := make([]string, 0, len(pairs))
	texts := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		path := filepath.Join(scratch, fmt.Sprintf("pair_%04d%s", i, AudioExt))
		if _, err := c.SynthesizePair(ctx, pair.First.Text, pair.First, pair.Second.Text, pair.Second, path, pauseMs); err != nil {
			return nil, err
		}
		paths = append(paths, path)
		texts = append(texts, pair.First.Text+"-"+pair.Second.Text)
	}

	combined := strings.Join(texts, " | ")
	outPath := filepath.Join(outputDir, FilenameWithPrefix(combined, "pairs_"))
	if err := c.stitcher.Stitch(ctx, paths, outPath, pauseMs); err != nil {
		return nil, err
	}
	log.Debug("merged pair batch", "pairs", len(pairs), "output", outPath)

	return []SynthesisResult{{
		Path:      outPath,
		Text:      combined,
		VoiceName: "mixed",
	}}, nil
}
