package dialogue

// Default dialogue wording.
const (
	DefaultSentinel      = "done"
	DefaultSymptomPrompt = "Enter a symptom you are experiencing (type %q when finished):"
	DefaultConfirmPrompt = "Are you experiencing %s? (yes/no)"
)

// Options configures the wording and control words of a session.
// Prompts are fmt formats: SymptomPrompt receives the sentinel and
// ConfirmPrompt the candidate symptom.
type Options struct {
	Sentinel      string
	Affirmatives  []string
	SymptomPrompt string
	ConfirmPrompt string
}

// DefaultOptions returns the stock wording with "done" and "yes".
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Sentinel == "" {
		o.Sentinel = DefaultSentinel
	}
	if len(o.Affirmatives) == 0 {
		o.Affirmatives = []string{"yes"}
	}
	if !ValidPrompt(o.SymptomPrompt) {
		o.SymptomPrompt = DefaultSymptomPrompt
	}
	if !ValidPrompt(o.ConfirmPrompt) {
		o.ConfirmPrompt = DefaultConfirmPrompt
	}
	return o
}

// ValidPrompt reports whether format takes exactly one fmt argument.
// "%%" is a literal percent sign and does not count.
func ValidPrompt(format string) bool {
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		verbs++
	}
	return verbs == 1
}
