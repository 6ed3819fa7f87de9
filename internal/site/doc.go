// Package site folds the sitemap entries of one build into the site-level
// artifacts: the index page, per-make and per-problem listing pages,
// sitemap.json, sitemap.xml, feed.xml and robots.txt.
//
// Grouping is stable: groups appear in the order their key was first seen and
// entries keep input order inside each group. Entries with duplicate slugs
// are kept, so aggregates may list the same URL twice.
package site
