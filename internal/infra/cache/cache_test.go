package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"asset-server/internal/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Cache", func() {
	var (
		cacheInstance cache.Cache
		ctx           context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		cacheInstance, err = cache.New(nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		ctx = context.Background()
	})

	ginkgo.Context("Set and Get", func() {
		ginkgo.When("setting and getting a value", func() {
			ginkgo.It("stores and retrieves the value", func() {
				success := cacheInstance.Set(ctx, "schema:cat-1", map[string]string{"serial_number": "text"}, time.Minute)
				gomega.Expect(success).To(gomega.BeTrue())

				retrieved, found := cacheInstance.Get(ctx, "schema:cat-1")
				gomega.Expect(found).To(gomega.BeTrue())
				gomega.Expect(retrieved).To(gomega.Equal(map[string]string{"serial_number": "text"}))
			})
		})

		ginkgo.When("getting a missing key", func() {
			ginkgo.It("reports not found", func() {
				_, found := cacheInstance.Get(ctx, "absent")
				gomega.Expect(found).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("removes the key", func() {
			cacheInstance.Set(ctx, "schema:cat-2", "value", time.Minute)
			cacheInstance.Delete(ctx, "schema:cat-2")

			_, found := cacheInstance.Get(ctx, "schema:cat-2")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("GetOrSet", func() {
		ginkgo.When("the key is missing", func() {
			ginkgo.It("invokes the loader and caches the result", func() {
				var calls atomic.Int32
				loader := func() (any, error) {
					calls.Add(1)
					return "loaded", nil
				}

				value, err := cacheInstance.GetOrSet(ctx, "key", time.Minute, loader)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(value).To(gomega.Equal("loaded"))

				value, err = cacheInstance.GetOrSet(ctx, "key", time.Minute, loader)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(value).To(gomega.Equal("loaded"))
				gomega.Expect(calls.Load()).To(gomega.Equal(int32(1)))
			})
		})

		ginkgo.When("the loader fails", func() {
			ginkgo.It("propagates the error and caches nothing", func() {
				loaderErr := errors.New("load failed")
				_, err := cacheInstance.GetOrSet(ctx, "broken", time.Minute, func() (any, error) {
					return nil, loaderErr
				})
				gomega.Expect(err).To(gomega.MatchError(loaderErr))

				_, found := cacheInstance.Get(ctx, "broken")
				gomega.Expect(found).To(gomega.BeFalse())
			})
		})

		ginkgo.When("multiple goroutines load the same key", func() {
			ginkgo.It("runs the loader once", func() {
				var calls atomic.Int32
				loader := func() (any, error) {
					calls.Add(1)
					time.Sleep(20 * time.Millisecond)
					return "shared", nil
				}

				var wg sync.WaitGroup
				for range 10 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						value, err := cacheInstance.GetOrSet(ctx, "hot", time.Minute, loader)
						gomega.Expect(err).NotTo(gomega.HaveOccurred())
						gomega.Expect(value).To(gomega.Equal("shared"))
					}()
				}
				wg.Wait()

				gomega.Expect(calls.Load()).To(gomega.Equal(int32(1)))
			})
		})
	})

	ginkgo.Context("Config", func() {
		ginkgo.It("creates a cache with custom configuration", func() {
			custom, err := cache.New(&cache.Config{
				MaxCost:     1 << 20,
				NumCounters: 1e5,
				BufferItems: 32,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(custom).NotTo(gomega.BeNil())
		})

		ginkgo.It("returns sane defaults", func() {
			config := cache.DefaultConfig()
			gomega.Expect(config.MaxCost).To(gomega.BeNumerically(">", int64(0)))
			gomega.Expect(config.NumCounters).To(gomega.BeNumerically(">", int64(0)))
			gomega.Expect(config.BufferItems).To(gomega.BeNumerically(">", int64(0)))
		})
	})
})
