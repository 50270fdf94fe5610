package config

// GetGeminiAPIKey returns the Gemini key, or "" when narrative generation is
// disabled.
func GetGeminiAPIKey() string {
	return GetEnv("GEMINI_API_KEY")
}
