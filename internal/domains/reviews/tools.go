package reviews

import "github.com/mark3labs/mcp-go/mcp"

func listTool() mcp.Tool {
	return mcp.NewTool("reviews_list",
		mcp.WithDescription("List customer reviews for an app using server-side filters only. Returns newest reviews first unless sort is overridden."),
		mcp.WithString("app_id",
			mcp.Description("App Store app ID. Defaults to the configured APP_STORE_APP_ID."),
		),
		mcp.WithArray("rating",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews with any of these star ratings (1-5)."),
		),
		mcp.WithArray("territory",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews from any of these App Store territories (ISO 3166-1 alpha-3, e.g. USA, GBR)."),
		),
		mcp.WithArray("app_store_version",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews left on any of these app store version IDs."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort field; prefix with - for descending. Default -createdDate."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Target number of reviews to return (default 50)."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. response."),
		),
	)
}

func getTool() mcp.Tool {
	return mcp.NewTool("reviews_get",
		mcp.WithDescription("Get one customer review by its ID, including the developer response when requested."),
		mcp.WithString("review_id",
			mcp.Required(),
			mcp.Description("Customer review ID."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. response."),
		),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool("reviews_search",
		mcp.WithDescription("Search customer reviews with filters the App Store Connect API cannot express server-side: rating ranges, substring matches on body/title/territory, and date windows. Paginates until the requested count is collected or the source is exhausted."),
		mcp.WithString("app_id",
			mcp.Description("App Store app ID. Defaults to the configured APP_STORE_APP_ID."),
		),
		mcp.WithArray("rating",
			mcp.WithStringItems(),
			mcp.Description("Server-side filter: exact star ratings to keep."),
		),
		mcp.WithNumber("min_rating",
			mcp.Description("Keep reviews rated at least this many stars."),
		),
		mcp.WithNumber("max_rating",
			mcp.Description("Keep reviews rated at most this many stars."),
		),
		mcp.WithArray("territory",
			mcp.WithStringItems(),
			mcp.Description("Server-side filter: exact territories to keep."),
		),
		mcp.WithArray("territory_contains",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews whose territory contains any of these substrings (case-insensitive)."),
		),
		mcp.WithArray("body_contains",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews whose body contains any of these substrings (case-insensitive)."),
		),
		mcp.WithArray("title_contains",
			mcp.WithStringItems(),
			mcp.Description("Keep reviews whose title contains any of these substrings (case-insensitive)."),
		),
		mcp.WithNumber("created_since_days",
			mcp.Description("Keep reviews created within the last N days."),
		),
		mcp.WithString("created_after",
			mcp.Description("Keep reviews created strictly after this ISO 8601 instant."),
		),
		mcp.WithString("created_before",
			mcp.Description("Keep reviews created strictly before this ISO 8601 instant."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort field; prefix with - for descending. Default -createdDate."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Target number of post-filter reviews to collect (default 200)."),
		),
		mcp.WithArray("include",
			mcp.WithStringItems(),
			mcp.Description("Related resources to include, e.g. response."),
		),
	)
}
