package storage

import (
	"errors"
	"testing"

	"simplegp/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	run := testRun("r1", "2026-03-01T10:00:00Z")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != run {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, run)
	}
}

func TestRunCodecRejectsVersionMismatch(t *testing.T) {
	run := testRun("r1", "")
	run.CodecVersion = CurrentCodecVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestGenerationStatsCodec(t *testing.T) {
	stats := []model.GenerationStats{
		{Generation: 1, Phase: "train", Size: 10, BestScore: 0.5, MeanScore: 1.5},
		{Generation: 1, Phase: "test", Size: 10, BestScore: 0.7},
	}
	data, err := EncodeGenerationStats(stats)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeGenerationStats(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Phase != "test" || decoded[0].MeanScore != 1.5 {
		t.Fatalf("unexpected stats: %+v", decoded)
	}

	if _, err := DecodeGenerationStats([]byte(`{"generations":[]}`)); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch for unversioned payload, got %v", err)
	}
}
