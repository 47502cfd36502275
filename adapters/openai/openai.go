// Package openaiswarm connects swarmkit to the openai-go client: it turns function schemas
// into tool parameters and folds streamed chat-completion chunks into an Accumulator.
package openaiswarm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	"github.com/skosovsky/swarmkit"
)

// ChunkStream is the part of *ssestream.Stream[openai.ChatCompletionChunk] that Collect uses.
type ChunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
}

// ToolParam converts fs into a chat-completion tool declaration. Schemas built with
// swarmkit.WithStrict are declared strict.
func ToolParam(fs swarmkit.FunctionSchema) openai.ChatCompletionToolUnionParam {
	def := shared.FunctionDefinitionParam{
		Name:        fs.Function.Name,
		Description: param.NewOpt(fs.Function.Description),
		Parameters:  fs.Function.Parameters.Map(),
	}
	if ap := fs.Function.Parameters.AdditionalProperties; ap != nil && !*ap {
		def.Strict = param.NewOpt(true)
	}
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{Function: def},
	}
}

// ToolParams converts every schema, keeping order.
func ToolParams(schemas []swarmkit.FunctionSchema) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(schemas))
	for _, fs := range schemas {
		out = append(out, ToolParam(fs))
	}
	return out
}

// MergeChunk merges the delta of the first choice of chunk into acc.
// Chunks without choices (e.g. the usage chunk) are ignored.
func MergeChunk(acc swarmkit.Accumulator, chunk openai.ChatCompletionChunk) error {
	if len(chunk.Choices) == 0 {
		return nil
	}
	raw := chunk.Choices[0].Delta.RawJSON()
	if raw == "" {
		return nil
	}
	return acc.MergeJSON([]byte(raw))
}

// CollectOption configures Collect.
type CollectOption func(*collectOptions)

type collectOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger for per-chunk debug records. Nil means slog.Default().
func WithLogger(logger *slog.Logger) CollectOption {
	return func(o *collectOptions) {
		o.logger = logger
	}
}

// Collect drains stream into acc in arrival order. It stops at the first merge error,
// at a stream error, or when ctx is done; acc keeps whatever was merged so far.
func Collect(ctx context.Context, stream ChunkStream, acc swarmkit.Accumulator, opts ...CollectOption) error {
	var o collectOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	seq := 0
	for stream.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := stream.Current()
		if err := MergeChunk(acc, chunk); err != nil {
			return fmt.Errorf("merge chunk %d (%s): %w", seq, chunk.ID, err)
		}
		o.logger.DebugContext(ctx, "merged chunk", "id", chunk.ID, "seq", seq)
		seq++
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	o.logger.DebugContext(ctx, "stream complete", "chunks", seq)
	return nil
}
