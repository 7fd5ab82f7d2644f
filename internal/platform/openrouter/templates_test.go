package openrouter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemMessage(t *testing.T) {
	t.Parallel()

	t.Run("flashcard template", func(t *testing.T) {
		m := SystemMessage(TemplateFlashcardGenerator, nil)
		assert.Equal(t, RoleSystem, m.Role)
		assert.Contains(t, m.Content, "SAME LANGUAGE")
	})

	t.Run("general assistant", func(t *testing.T) {
		m := SystemMessage(TemplateGeneralAssistant, nil)
		assert.Equal(t, "You are a helpful, accurate, and friendly AI assistant. Provide clear and concise responses.", m.Content)
	})

	t.Run("literal with variables", func(t *testing.T) {
		m := SystemMessage("  You tutor {{subject}} at {{level}} level. {{unknown}} stays.  ", map[string]string{
			"subject": "chemistry",
			"level":   "beginner",
		})
		assert.Equal(t, "You tutor chemistry at beginner level. {{unknown}} stays.", m.Content)
	})

	t.Run("repeated placeholder", func(t *testing.T) {
		m := SystemMessage("{{x}} and {{x}}", map[string]string{"x": "y"})
		assert.Equal(t, "y and y", m.Content)
	})
}
