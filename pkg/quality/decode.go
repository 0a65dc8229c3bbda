package quality

import "listenlab/pkg/audio"

// AnalyzeFile decodes a file and measures it in one step.
func AnalyzeFile(path string) (Metrics, error) {
	samples, rate, err := audio.LoadFile(path)
	if err != nil {
		return Metrics{}, err
	}
	return Analyze(samples, rate), nil
}
