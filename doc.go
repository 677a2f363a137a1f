// Package nb2md cleans Jupyter notebooks and exports them as documentation-ready markdown.
//
// # Quick Start
//
// Create an exporter and convert a notebook into a destination directory:
//
//	exp, err := nb2md.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := exp.Convert(ctx, "analysis.ipynb", "docs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Files) // docs/analysis.md, docs/analysis/output_3_0.png, ...
//
// Use Export to get the markdown and extracted files without writing anything.
//
// # Cleaning Pipeline
//
// Every notebook flows through an ordered list of stages before rendering.
// The default order is:
//
//  1. InjectMeta, CleanMagics, BashIdentify, UpdateTags (read #| directives and magics)
//  2. InsertWarning, TagRemove, CleanFlags, CleanShowDoc (restructure cells)
//  3. RmEmptyCode, StripAnsi, HideInputLines, RmHeaderDash, RmExport (tidy content)
//  4. ExtractAttachments, ExtractOutput (move binary payloads to files)
//
// Stages never fail: anomalies such as an undecodable image are reported as
// diagnostics and the run continues. Only context cancellation aborts a run.
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp, err := nb2md.NewExporter(
//	    nb2md.WithStages("InjectMeta", "TagRemove", "ExtractOutput"),
//	    nb2md.WithTestFlags("slow"),
//	    nb2md.WithTemplate("markdown"),
//	    nb2md.WithHTMLPreview("default"),
//	)
//
// # Custom Assets
//
// Override the built-in template and preview style with WithAssetPath:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom.tmpl
//
// Templates are Go text/templates executed against a Document view of the
// cleaned notebook.
package nb2md
