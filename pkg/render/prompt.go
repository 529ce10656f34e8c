package render

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"

	"github.com/nodecanvas/nodecanvas/pkg/types"
)

// PreviewPrompt substitutes upstream field values into prompt text.
// References use f-string syntax, e.g. {InputNode.question}, matching
// the strings the prompt editor inserts.
func PreviewPrompt(text string, values map[string]any) (string, error) {
	rendered, err := prompts.RenderTemplate(text, prompts.TemplateFormatFString, values)
	if err != nil {
		return "", errors.Wrap(err, "rendering prompt preview")
	}
	return rendered, nil
}

// Reference formats an upstream field name as the token the prompt
// editor inserts at the cursor.
func Reference(field string) string {
	return "{" + field + "}"
}

// FewShotMessages converts a configuration's few-shot example list into
// alternating human/AI chat messages for preview. Entries that are not
// input/output pairs are skipped.
func FewShotMessages(cfg types.Config) []llms.MessageContent {
	raw, ok := cfg[types.KeyFewShotExamples].([]any)
	if !ok {
		return nil
	}
	var msgs []llms.MessageContent
	for _, item := range raw {
		pair, ok := item.(map[string]any)
		if !ok {
			continue
		}
		msgs = append(msgs,
			llms.TextParts(schema.ChatMessageTypeHuman, cast.ToString(pair["input"])),
			llms.TextParts(schema.ChatMessageTypeAI, cast.ToString(pair["output"])),
		)
	}
	return msgs
}
