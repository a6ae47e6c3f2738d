package llm

// EstimateTokens approximates the token count of text at four characters
// per token, rounded up.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// EstimateCost returns the approximate USD cost of one exchange with
// modelID, or 0 when the model has no known pricing.
func EstimateCost(modelID, prompt, response string) float64 {
	m := GetModel(modelID)
	if m == nil {
		return 0
	}
	in := float64(EstimateTokens(prompt)) / 1_000_000 * m.InputPer1M
	out := float64(EstimateTokens(response)) / 1_000_000 * m.OutputPer1M
	return in + out
}
