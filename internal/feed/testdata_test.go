package feed_test

const rssFixture = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:letterboxd="https://letterboxd.com" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Letterboxd - alice</title>
<link>https://letterboxd.com/alice/</link>
<description>Letterboxd - alice</description>
<item>
<title>Dune, 2021 - ★★★★</title>
<link>https://letterboxd.com/alice/film/dune-2021/</link>
<guid isPermaLink="false">letterboxd-watch-1</guid>
<pubDate>Sat, 03 Feb 2024 21:00:00 +1300</pubDate>
<letterboxd:watchedDate>2024-02-02</letterboxd:watchedDate>
<letterboxd:rewatch>No</letterboxd:rewatch>
<letterboxd:filmTitle>Dune</letterboxd:filmTitle>
<letterboxd:filmYear>2021</letterboxd:filmYear>
<letterboxd:memberRating>4.0</letterboxd:memberRating>
<description>Watched on Friday</description>
</item>
<item>
<title>alice watched Heat, 1995 - ★★★½</title>
<link>https://letterboxd.com/alice/film/heat/</link>
<guid isPermaLink="false">letterboxd-watch-2</guid>
<pubDate>Thu, 01 Feb 2024 10:00:00 +0000</pubDate>
<description>No watched date</description>
</item>
<item>
<title>alice liked Barbie, 2023</title>
<link>https://letterboxd.com/alice/film/barbie/</link>
<guid isPermaLink="false">letterboxd-like-3</guid>
<pubDate>Wed, 10 Jan 2024 10:00:00 +0000</pubDate>
</item>
</channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>alice</title>
<id>urn:alice</id>
<updated>2024-03-01T10:00:00Z</updated>
<entry>
<title>alice Alien, 1979 - ★★★★★</title>
<link href="https://letterboxd.com/alice/film/alien/"/>
<id>urn:entry:1</id>
<updated>2024-03-01T10:00:00Z</updated>
<summary>Perfect</summary>
</entry>
</feed>`
