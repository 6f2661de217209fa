package combinedform_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	combinedform "github.com/goliatone/go-combinedform"
	"github.com/goliatone/go-combinedform/pkg/entity"
	pkgopenapi "github.com/goliatone/go-combinedform/pkg/openapi"
	"github.com/goliatone/go-combinedform/pkg/record"
)

const blogSpec = `
openapi: 3.0.3
info:
  title: Blog
  version: 1.0.0
paths: {}
components:
  schemas:
    Author:
      type: object
      required: [name]
      properties:
        name:
          type: string
    Post:
      type: object
      required: [title, author]
      properties:
        title:
          type: string
        author:
          type: string
          x-relationship:
            type: belongsTo
            target: Author
`

// The full pipeline: load a spec, extract entities, compose a combined form,
// and save it in dependency order.
func TestCombinedFormFromOpenAPI(t *testing.T) {
	fsys := fstest.MapFS{
		"blog.yaml": &fstest.MapFile{Data: []byte(blogSpec)},
	}

	doc, err := combinedform.NewLoader(pkgopenapi.WithFileSystem(fsys)).
		Load(context.Background(), pkgopenapi.SourceFromFS("blog.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	descriptors, err := combinedform.NewParser().Entities(context.Background(), doc)
	if err != nil {
		t.Fatalf("Entities returned error: %v", err)
	}

	registry := entity.NewRegistry()
	for _, descriptor := range descriptors {
		registry.MustRegister(descriptor)
	}

	store := record.NewStore()
	postDesc, _ := registry.Get("Post")
	authorDesc, _ := registry.Get("Author")

	combined, err := combinedform.NewBuilder(combinedform.WithMainForm("post")).
		Subform("post", record.Factory(postDesc, store, record.WithPrefix("post"))).
		Subform("author", record.Factory(authorDesc, store, record.WithPrefix("author"))).
		Build(combinedform.Request{
			Values: map[string]any{
				"post-title":  "Hello",
				"author-name": "Ada",
			},
		})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	outcome, err := combined.Save(context.Background())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// The author saves first even though the post was declared first.
	if diff := cmp.Diff([]string{"author", "post"}, outcome.Order()); diff != "" {
		t.Errorf("save order mismatch (-want +got):\n%s", diff)
	}

	main, ok := outcome.Main()
	if !ok {
		t.Fatal("expected the post result as main")
	}
	post, ok := main.Single()
	if !ok {
		t.Fatal("post form did not produce a single record")
	}

	authorResult, _ := outcome.Result("author")
	author, _ := authorResult.Single()
	if post.(*record.Record).Data["author"] != author.RecordID() {
		t.Error("post record is not linked to the author record")
	}
}

func TestOrderByDependencyAlias(t *testing.T) {
	descriptors := []combinedform.EntityDescriptor{
		{Name: "Post", References: []combinedform.Reference{{Field: "author", Target: "Author"}}},
		{Name: "Author"},
	}

	ordered, err := combinedform.OrderByDependency(descriptors)
	if err != nil {
		t.Fatalf("OrderByDependency returned error: %v", err)
	}

	want := []combinedform.EntityType{"Author", "Post"}
	got := make([]combinedform.EntityType, 0, len(ordered))
	for _, descriptor := range ordered {
		got = append(got, descriptor.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
