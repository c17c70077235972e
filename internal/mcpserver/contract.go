package mcpserver

// RecordFormatReference describes the land record fields returned by
// the registry tools.
const RecordFormatReference = `# Cadastr Land Record Format

Records returned by ` + "`search_land_records`" + ` and ` + "`get_land_record`" + ` are JSON
objects with these fields:

| Field | Type | Notes |
|---|---|---|
| id | UUID | stable record identifier |
| title | string | human-readable parcel name |
| location | string | textual address or area description |
| coordinates | string | optional "lat,lng" pair |
| size | number | parcel size in size_unit |
| size_unit | string | e.g. "sqm", "acre", "hectare" |
| ownership_status | string | always "verified" for public tools |
| zoning | string | zone code, cross-reference list_zoning_laws |
| price | number | optional asking price |
| description | string | optional free text |
| created_at / updated_at | RFC3339 | registry timestamps |

Only records an administrator has verified are exposed here. Pending
and disputed records are private to their owners and the registry.

Search matches title, location, description, and zoning. Query syntax
follows SQLite FTS5 when the server is built with full-text search,
plain substring matching otherwise.
`
