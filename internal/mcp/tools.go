package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/pagecraft/internal/components"
)

var getProjectTool = mcp.NewTool("get_project",
	mcp.WithDescription("Get the project: pages, component trees, the current page and whether undo/redo are available. Use format \"html\" for the generated markup of the current page."),
	mcp.WithString("format",
		mcp.Description("Output format (default json)"),
		mcp.Enum("json", "html"),
	),
)

var listComponentsTool = mcp.NewTool("list_components",
	mcp.WithDescription("List the component types that can be inserted, with their category, whether they hold children and their default props."),
)

var insertComponentTool = mcp.NewTool("insert_component",
	mcp.WithDescription("Insert a new component with its default props on the current page. Without a target it is appended to the page root."),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Component type"),
		mcp.Enum(components.Types()...),
	),
	mcp.WithString("target_id",
		mcp.Description("Id of the component to drop on"),
	),
	mcp.WithString("position",
		mcp.Description("Where to place the component relative to the target (default inside)"),
		mcp.Enum("inside", "before", "after"),
	),
)

var updateComponentTool = mcp.NewTool("update_component",
	mcp.WithDescription("Merge props into a component on the current page. Navbar and Footer changes are copied to the other pages."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Component id"),
	),
	mcp.WithObject("props",
		mcp.Required(),
		mcp.Description("Props to merge, as an object or a JSON object string"),
	),
)

var removeComponentTool = mcp.NewTool("remove_component",
	mcp.WithDescription("Remove a component and its children from the current page."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Component id"),
	),
)

var duplicateComponentTool = mcp.NewTool("duplicate_component",
	mcp.WithDescription("Copy a component, with fresh ids, directly after itself."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Component id"),
	),
)

var addPageTool = mcp.NewTool("add_page",
	mcp.WithDescription("Add an empty page and make it current."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Page name"),
	),
	mcp.WithString("slug",
		mcp.Description("URL slug, e.g. about (derived from the name when omitted)"),
	),
)

var updatePageTool = mcp.NewTool("update_page",
	mcp.WithDescription("Rename a page or change its slug."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("Page id"),
	),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Page name"),
	),
	mcp.WithString("slug",
		mcp.Description("URL slug (unchanged when omitted)"),
	),
)

var deletePageTool = mcp.NewTool("delete_page",
	mcp.WithDescription("Delete a page. The last remaining page cannot be deleted."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("Page id"),
	),
)

var selectPageTool = mcp.NewTool("select_page",
	mcp.WithDescription("Make a page current. Component tools act on the current page."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("Page id"),
	),
)

var undoTool = mcp.NewTool("undo",
	mcp.WithDescription("Undo the last page edit."),
)

var redoTool = mcp.NewTool("redo",
	mcp.WithDescription("Redo the last undone page edit."),
)

var exportSiteTool = mcp.NewTool("export_site",
	mcp.WithDescription("Export the project as a static site: a zip archive when output ends in .zip, a directory otherwise."),
	mcp.WithString("output",
		mcp.Required(),
		mcp.Description("Archive path or directory"),
	),
	mcp.WithString("pages",
		mcp.Description("Comma-separated glob patterns selecting pages by route or file name"),
	),
)
