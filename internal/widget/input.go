package widget

import "sync"

// InputField holds the query text. Replacing the value is its only operation.
type InputField struct {
	mu       sync.RWMutex
	value    string
	onChange []func(string)
}

func NewInputField() *InputField {
	return &InputField{}
}

func (f *InputField) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Set replaces the value and fires the change hooks, even when the value is
// unchanged.
func (f *InputField) Set(value string) {
	f.mu.Lock()
	f.value = value
	hooks := append([]func(string){}, f.onChange...)
	f.mu.Unlock()

	for _, hook := range hooks {
		hook(value)
	}
}

func (f *InputField) OnChange(hook func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = append(f.onChange, hook)
}
