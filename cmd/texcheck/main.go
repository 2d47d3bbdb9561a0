// Command texcheck loads every texture a scene references through the same
// loader the engine uses and reports the ones that fail.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/milk9111/rengine/assets"
	"github.com/milk9111/rengine/config"
	"github.com/milk9111/rengine/ecs/entity"
	"github.com/milk9111/rengine/ecs/render"
	"github.com/milk9111/rengine/prefabs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config (embedded defaults when empty)")
	timeout := flag.Duration("timeout", 10*time.Second, "give up after this long")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	scene, err := prefabs.LoadSceneSpec(cfg.Scene)
	if err != nil {
		log.Fatal(err)
	}
	handles := entity.Handles(scene)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loader := render.FileLoader{Root: cfg.Textures.Root, Fallback: assets.Textures}
	queue := render.NewLoadQueue(ctx, loader, cfg.Textures.Workers, max(len(handles), 1), nil)
	defer queue.Close()

	for _, h := range handles {
		if err := queue.Enqueue(render.Request{ID: uuid.New(), Handle: h, Attempt: 1}); err != nil {
			log.Fatalf("enqueue %s: %v", h, err)
		}
	}

	failed := 0
	for range handles {
		select {
		case res := <-queue.Results():
			if res.Err != nil {
				failed++
				log.Printf("FAIL %s: %v", res.Request.Handle, res.Err)
				continue
			}
			b := res.Pixels.Image.Bounds()
			log.Printf("ok   %s %dx%d digest=%016x", res.Request.Handle, b.Dx(), b.Dy(), res.Pixels.Digest)
		case <-ctx.Done():
			log.Fatalf("timed out: %v", ctx.Err())
		}
	}

	if failed > 0 {
		log.Printf("%d of %d textures failed", failed, len(handles))
		os.Exit(1)
	}
}
