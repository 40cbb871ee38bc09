package crashes

import "github.com/mark3labs/mcp-go/mcp"

func listTool() mcp.Tool {
	return mcp.NewTool("crashes_list",
		mcp.WithDescription("List TestFlight crash feedback submissions for an app using server-side filters only."),
		mcp.WithString("app_id",
			mcp.Description("App Store app ID. Defaults to the configured APP_STORE_APP_ID."),
		),
		mcp.WithArray("device_model",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes from any of these exact device models (e.g. iPhone15,2)."),
		),
		mcp.WithArray("os_version",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes on any of these exact OS versions."),
		),
		mcp.WithArray("app_platform",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes for any of these app platforms (IOS, MAC_OS, TV_OS, VISION_OS)."),
		),
		mcp.WithArray("device_platform",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes from any of these device platforms."),
		),
		mcp.WithArray("build_id",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes from any of these build IDs."),
		),
		mcp.WithArray("tester_id",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes reported by any of these beta tester IDs."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort field; prefix with - for descending. Default -createdDate."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Target number of submissions to return (default 50)."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. build, tester."),
		),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("crashes_search",
		mcp.WithDescription("Search TestFlight crash submissions with post-filters the API cannot express server-side: OS version ranges, device model substrings, and date windows. Paginates until the requested count is collected or the source is exhausted."),
		mcp.WithString("app_id",
			mcp.Description("App Store app ID. Defaults to the configured APP_STORE_APP_ID."),
		),
		mcp.WithArray("app_platform",
			mcp.WithStringItems(),
			mcp.Description("Server-side filter: app platforms to keep."),
		),
		mcp.WithArray("device_platform",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes from any of these device platforms. Default IOS."),
		),
		mcp.WithString("os_min_version",
			mcp.Description("Keep crashes on OS versions >= this dotted version (e.g. 17.0)."),
		),
		mcp.WithString("os_max_version",
			mcp.Description("Keep crashes on OS versions <= this dotted version."),
		),
		mcp.WithArray("os_versions",
			mcp.WithStringItems(),
			mcp.Description("Server-side filter: exact OS versions to keep."),
		),
		mcp.WithArray("device_model",
			mcp.WithStringItems(),
			mcp.Description("Server-side filter: exact device models to keep."),
		),
		mcp.WithArray("device_model_contains",
			mcp.WithStringItems(),
			mcp.Description("Keep crashes whose device model contains any of these substrings (case-insensitive, e.g. iPad)."),
		),
		mcp.WithNumber("created_since_days",
			mcp.Description("Keep crashes created within the last N days."),
		),
		mcp.WithString("created_after",
			mcp.Description("Keep crashes created strictly after this ISO 8601 instant."),
		),
		mcp.WithString("created_before",
			mcp.Description("Keep crashes created strictly before this ISO 8601 instant."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort field; prefix with - for descending. Default -createdDate."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Target number of post-filter submissions to collect (default 200)."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. build, tester."),
		),
	)
}

func getTool() mcp.Tool {
	return mcp.NewTool("crashes_get",
		mcp.WithDescription("Get one TestFlight crash submission by its ID."),
		mcp.WithString("submission_id",
			mcp.Required(),
			mcp.Description("Crash feedback submission ID."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. build, tester."),
		),
	)
}

func logTool() mcp.Tool {
	return mcp.NewTool("crashes_log",
		mcp.WithDescription("Fetch the crash log text for a TestFlight crash submission."),
		mcp.WithString("submission_id",
			mcp.Required(),
			mcp.Description("Crash feedback submission ID."),
		),
	)
}
