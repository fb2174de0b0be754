// Package recipedex embeds the recipedex fuzzy recipe search in a Go program,
// backed by Valkey or Redis with the search module.
//
// Recipes are stored as hashes with a tag index over their title keywords.
// A search looks each query word up in the index (with plural/singular
// variants), falls back to a full scan when a word has no indexed match,
// and ranks titles by normalized edit distance.
//
//	client, _ := recipedex.New(ctx, recipedex.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Recipes().Upsert(ctx, recipedex.Recipe{
//	    ID: "tarte", Title: "Tarte aux Fraises", Type: "dessert",
//	})
//	res, _ := client.Search(ctx, "tartes fraise", recipedex.WithType("dessert"))
//	for _, h := range res.Hits {
//	    fmt.Println(h.Recipe.Title, h.Score)
//	}
package recipedex
