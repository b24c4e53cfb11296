// Package docrank embeds the docrank hybrid ranking engine in a Go
// program, without running the HTTP service. The client connects
// straight to the chunk store and wires the same engine the server uses.
//
//	client, _ := docrank.New(ctx,
//	    docrank.WithRedis("localhost:6379", ""),
//	    docrank.WithOpenAI(docrank.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	        Model:  "text-embedding-3-small",
//	    }),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, docrank.SearchRequest{
//	    Query:   "ห้างสรรพสินค้า shopping mall",
//	    OwnerID: "acme",
//	})
package docrank
