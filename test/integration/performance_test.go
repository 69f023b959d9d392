package integration

import (
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/loan-affordability/internal/assessment"
	"github.com/iwvelando/loan-affordability/internal/config"
	"github.com/iwvelando/loan-affordability/pkg/affordability"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := assessment.GetAssessments(logger, *conf, assessment.Options{Schedule: true})
	if err != nil {
		t.Fatalf("GetAssessments failed: %v", err)
	}
	assessTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Assess scenarios: %v", assessTime)

	if total := loadTime + assessTime; total > 5*time.Second {
		t.Errorf("Total processing time %v exceeds 5 second threshold", total)
	}

	for _, result := range results {
		if len(result.Schedule) != result.Application.TermYears*12 {
			t.Errorf("Scenario %s has %d schedule rows, expected %d",
				result.Name, len(result.Schedule), result.Application.TermYears*12)
		}
	}
}

// TestConcurrentSearches shares one Calculator between goroutines and checks
// every goroutine sees the same answers as a sequential run.
func TestConcurrentSearches(t *testing.T) {
	calculator, err := affordability.NewCalculator(zap.NewNop(), affordability.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewCalculator failed: %v", err)
	}

	incomes := make([]float64, 0, 40)
	for income := 1000.0; income <= 20500; income += 500 {
		incomes = append(incomes, income)
	}

	expected := make([]float64, len(incomes))
	for i, income := range incomes {
		result, err := calculator.MaxBorrowable(income, 0.045, 30, 0, 250)
		if err != nil {
			t.Fatalf("MaxBorrowable failed: %v", err)
		}
		expected[i] = result.MaxPrincipal
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan string, workers*len(incomes))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, income := range incomes {
				result, err := calculator.MaxBorrowable(income, 0.045, 30, 0, 250)
				if err != nil {
					errs <- err.Error()
					continue
				}
				if result.MaxPrincipal != expected[i] {
					errs <- "mismatched result"
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
