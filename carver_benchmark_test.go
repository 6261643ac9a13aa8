package carver

import (
	"context"
	"math/rand"
	"testing"
)

func Benchmark_Carver(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	img := randomImage(rng, 3, 120, 160)
	c := newTestCarver(b, Config{})
	target := TargetSize{Height: 110, Width: 140}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := c.Carve(context.Background(), img, target); err != nil {
			b.FailNow()
		}
	}
}

func Benchmark_FindSeam(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	e, err := BuildEnergy(randomImage(rng, 3, 240, 320))
	if err != nil {
		b.Fatalf("error building the energy map: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := FindSeam(e, Vertical); err != nil {
			b.FailNow()
		}
	}
}

func Benchmark_CarveBatch(b *testing.B) {
	rng := rand.New(rand.NewSource(3))
	imgs := make([]*Image, 8)
	for i := range imgs {
		imgs[i] = randomImage(rng, 3, 64, 64)
	}
	c := newTestCarver(b, Config{})
	target := TargetSize{Height: 56, Width: 56}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := c.CarveBatch(context.Background(), imgs, target); err != nil {
			b.FailNow()
		}
	}
}
