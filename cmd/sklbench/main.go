// Command sklbench drives a SkipListMap with a configurable mixed
// workload and reports throughput and contention counters per run. It
// talks to the map exclusively through its public API.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finegrain-ds/skiplist"
)

type benchConfig struct {
	goroutines  int
	keys        int64
	writePct    int
	dist        string
	duration    time.Duration
	runs        int
	p           float64
	maxLevel    int
	metricsAddr string
	dump        bool
	seed        int64
}

type runResult struct {
	ops             int64
	elapsed         time.Duration
	length          int
	height          int
	insertRetries   int64
	insertSuccesses int64
	deleteRetries   int64
}

func main() {
	var cfg benchConfig
	flag.IntVar(&cfg.goroutines, "goroutines", runtime.GOMAXPROCS(0), "number of worker goroutines")
	flag.Int64Var(&cfg.keys, "keys", 1<<16, "size of the key space")
	flag.IntVar(&cfg.writePct, "write", 20, "percentage of operations that mutate (split evenly between put and delete)")
	flag.StringVar(&cfg.dist, "dist", "uniform", "key distribution: uniform, ascending or zipf")
	flag.DurationVar(&cfg.duration, "duration", 3*time.Second, "duration of each run")
	flag.IntVar(&cfg.runs, "runs", 3, "how many times to repeat the benchmark")
	flag.Float64Var(&cfg.p, "p", skiplist.DefaultProbability, "level promotion probability")
	flag.IntVar(&cfg.maxLevel, "maxlevel", skiplist.DefaultMaxLevel, "maximum skip list height")
	flag.StringVar(&cfg.metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address while running")
	flag.BoolVar(&cfg.dump, "dump", false, "print the layered structure after each run (small key spaces only)")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "seed for the workload generators")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("sklbench: %+v", err)
	}
}

func run(cfg benchConfig) error {
	if cfg.writePct < 0 || cfg.writePct > 100 {
		return errors.Errorf("write percentage must be in [0, 100], got %d", cfg.writePct)
	}
	if cfg.keys < 1 {
		return errors.Errorf("key space must be positive, got %d", cfg.keys)
	}

	registry := prometheus.NewRegistry()
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.metricsAddr, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	fmt.Printf("goroutines=%d keys=%d write=%d%% dist=%s duration=%s p=%v maxlevel=%d\n",
		cfg.goroutines, cfg.keys, cfg.writePct, cfg.dist, cfg.duration, cfg.p, cfg.maxLevel)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"run", "ops", "ops/s", "len", "height", "ins retry", "ins ok", "del retry"})

	var totalOps int64
	var totalElapsed time.Duration
	for i := 1; i <= cfg.runs; i++ {
		res, err := runOnce(cfg, registry, i)
		if err != nil {
			return errors.Wrapf(err, "run %d", i)
		}
		totalOps += res.ops
		totalElapsed += res.elapsed
		table.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(res.ops),
			fmt.Sprintf("%.0f", float64(res.ops)/res.elapsed.Seconds()),
			fmt.Sprint(res.length),
			fmt.Sprint(res.height),
			fmt.Sprint(res.insertRetries),
			fmt.Sprint(res.insertSuccesses),
			fmt.Sprint(res.deleteRetries),
		})
	}
	table.SetFooter([]string{
		"total", fmt.Sprint(totalOps),
		fmt.Sprintf("%.0f", float64(totalOps)/totalElapsed.Seconds()),
		"", "", "", "", "",
	})
	table.Render()
	return nil
}

func runOnce(cfg benchConfig, registry *prometheus.Registry, run int) (runResult, error) {
	less := func(a, b int64) bool { return a < b }
	m, err := skiplist.New[int64, int64](less,
		skiplist.WithMaxLevel(cfg.maxLevel),
		skiplist.WithProbability(cfg.p),
	)
	if err != nil {
		return runResult{}, errors.Wrap(err, "build skip list")
	}
	if err := registry.Register(skiplist.NewCollector(fmt.Sprintf("run%d", run), m)); err != nil {
		return runResult{}, errors.Wrap(err, "register collector")
	}

	// Preload half the key space so reads have something to hit.
	for k := int64(0); k < cfg.keys/2; k++ {
		m.Put(k, k)
	}

	var (
		ops       int64
		ascending int64
		wg        sync.WaitGroup
	)
	deadline := time.Now().Add(cfg.duration)
	start := time.Now()
	wg.Add(cfg.goroutines)
	for w := 0; w < cfg.goroutines; w++ {
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(cfg.seed + int64(worker)*1_000_003))
			var zipf *rand.Zipf
			if cfg.dist == "zipf" {
				zipf = rand.NewZipf(r, 1.07, 1, uint64(cfg.keys-1))
			}
			var local int64
			for time.Now().Before(deadline) {
				var key int64
				switch cfg.dist {
				case "ascending":
					key = atomic.AddInt64(&ascending, 1) % cfg.keys
				case "zipf":
					key = int64(zipf.Uint64())
				default:
					key = r.Int63n(cfg.keys)
				}
				if r.Intn(100) < cfg.writePct {
					if r.Intn(2) == 0 {
						m.Put(key, key)
					} else {
						m.Delete(key)
					}
				} else {
					m.Get(key)
				}
				local++
			}
			atomic.AddInt64(&ops, local)
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if cfg.dump {
		if cfg.keys <= 64 {
			fmt.Print(m.String())
		} else {
			fmt.Println("dump skipped: key space too large")
		}
	}

	insRetries, insSuccesses := m.Metrics().InsertStats()
	return runResult{
		ops:             ops,
		elapsed:         elapsed,
		length:          m.Len(),
		height:          m.Levels(),
		insertRetries:   insRetries,
		insertSuccesses: insSuccesses,
		deleteRetries:   m.Metrics().DeleteRetries(),
	}, nil
}
