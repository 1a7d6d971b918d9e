package benchmarks

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/bytedance/sonic"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	valyala "github.com/valyala/fastjson"

	fastjson "github.com/fastjsonwest/fastjson-go"
)

var (
	smallDoc = []byte(`{"name":"John","age":30,"city":"New York"}`)

	mediumDoc = []byte(`{
		"users": [
			{"id": 1, "name": "Alice", "email": "alice@example.com", "active": true},
			{"id": 2, "name": "Bob", "email": "bob@example.com", "active": false},
			{"id": 3, "name": "Charlie", "email": "charlie@example.com", "active": true},
			{"id": 4, "name": "David", "email": "david@example.com", "active": true},
			{"id": 5, "name": "Eve", "email": "eve@example.com", "active": false}
		],
		"metadata": {
			"version": "1.0.0",
			"timestamp": 1234567890,
			"count": 5
		}
	}`)

	largeDoc []byte
)

func init() {
	// Array of 10000 records, a few MB, enough to cross the parallel
	// threshold under default options.
	largeDoc = append(largeDoc, '[')
	for i := 0; i < 10000; i++ {
		if i > 0 {
			largeDoc = append(largeDoc, ',')
		}
		largeDoc = append(largeDoc, `{"id":`...)
		largeDoc = strconv.AppendInt(largeDoc, int64(i), 10)
		largeDoc = append(largeDoc, `,"name":"User Name Here","email":"user@example.com","score":98.6,"active":true,"tags":["tag1","tag2","tag3"],"profile":{"bio":"This is a bio text","location":"San Francisco, CA","website":"https://example.com"}}`...)
	}
	largeDoc = append(largeDoc, ']')
}

func benchmarkParse(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		doc, err := fastjson.Parse(data)
		if err != nil {
			b.Fatal(err)
		}
		doc.Close()
	}
}

func BenchmarkParseSmall(b *testing.B)  { benchmarkParse(b, smallDoc) }
func BenchmarkParseMedium(b *testing.B) { benchmarkParse(b, mediumDoc) }
func BenchmarkParseLarge(b *testing.B)  { benchmarkParse(b, largeDoc) }

func BenchmarkParseLargeSequential(b *testing.B) {
	opts := fastjson.DefaultOptions()
	opts.MaxThreads = 1
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		doc, err := fastjson.ParseWithOptions(largeDoc, opts)
		if err != nil {
			b.Fatal(err)
		}
		doc.Close()
	}
}

func BenchmarkParseLargeScalarKernel(b *testing.B) {
	opts := fastjson.DefaultOptions()
	opts.EnableSIMD = false
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		doc, err := fastjson.ParseWithOptions(largeDoc, opts)
		if err != nil {
			b.Fatal(err)
		}
		doc.Close()
	}
}

// Tree-parsing comparisons. These build a navigable document, the same
// job Parse does.

func BenchmarkParseLarge_ValyalaFastjson(b *testing.B) {
	var p valyala.Parser
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		if _, err := p.ParseBytes(largeDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseLarge_SonicAST(b *testing.B) {
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		root, err := sonic.Get(largeDoc)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := root.Len(); err != nil {
			b.Fatal(err)
		}
	}
}

// Unmarshal-to-any comparisons.

func BenchmarkUnmarshalLarge_StdLib(b *testing.B) {
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		var v any
		if err := json.Unmarshal(largeDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalLarge_JSONIter(b *testing.B) {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		var v any
		if err := api.Unmarshal(largeDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalLarge_Goccy(b *testing.B) {
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		var v any
		if err := gojson.Unmarshal(largeDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalLarge_Sonic(b *testing.B) {
	b.SetBytes(int64(len(largeDoc)))
	for i := 0; i < b.N; i++ {
		var v any
		if err := sonic.Unmarshal(largeDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}

// Serialization.

func BenchmarkSerializeLarge(b *testing.B) {
	doc, err := fastjson.Parse(largeDoc)
	if err != nil {
		b.Fatal(err)
	}
	defer doc.Close()
	b.SetBytes(int64(len(largeDoc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = fastjson.Serialize(doc, false)
	}
}

func BenchmarkSerializeLarge_StdLib(b *testing.B) {
	var v any
	if err := json.Unmarshal(largeDoc, &v); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(largeDoc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

// Validation-only comparisons.

func BenchmarkValidMedium(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	for i := 0; i < b.N; i++ {
		if !fastjson.Valid(mediumDoc) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkValidMedium_StdLib(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	for i := 0; i < b.N; i++ {
		if !json.Valid(mediumDoc) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkValidMedium_ValyalaFastjson(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	for i := 0; i < b.N; i++ {
		if err := valyala.ValidateBytes(mediumDoc); err != nil {
			b.Fatal(err)
		}
	}
}
