package http_test

import (
	"encoding/json"
	"testing"

	"github.com/influencer-marketplace/webclient/internal/events"
	"github.com/stretchr/testify/require"
)

const brandB1 = `{"success":true,"data":{"_id":"b1","userId":"u1","user":{"_id":"u1","name":"Acme"},"tags":["Outdoor"]}}`

func newBrandGateway(t *testing.T) *gateway {
	t.Helper()
	g := newGateway(t, nil)
	g.up.set("GET /brand/b1", brandB1)
	g.up.set("GET /brand/user/u1", brandB1)
	g.up.set("GET /campaign/brand/b1", `{"success":true,"data":[]}`)
	g.up.set("PUT /brand/b1", `{"success":true,"data":{"_id":"b1","userId":"u1"}}`)
	g.up.set("PUT /auth/me", `{"success":true,"data":{"_id":"u1","name":"Acme Co"}}`)
	return g
}

func newInfluencerGateway(t *testing.T) *gateway {
	t.Helper()
	g := newGateway(t, nil)
	g.up.set("GET /influencer/i1", `{"success":true,"data":{"_id":"i1","userId":"u2","name":"Ann","followers":{"instagram":1500}}}`)
	g.up.set("GET /influencer/i1/content", `{"success":true,"data":[]}`)
	g.up.set("PUT /influencer/i1", `{"success":true,"data":{"_id":"i1","userId":"u2"}}`)
	return g
}

func lastEvent(t *testing.T, g *gateway) events.Event {
	t.Helper()
	require.NotEmpty(t, g.events)
	return g.events[len(g.events)-1]
}

func TestBrandProfileEdits(t *testing.T) {
	g := newBrandGateway(t)
	owner := token(t, "u1", "brand", "b1")

	status, env := g.do(t, "PUT", "/api/v1/pages/brands/b1/description", owner, `{"description":"Gear for every trail"}`)
	require.Equal(t, 200, status)
	require.True(t, env.OK)
	require.Contains(t, g.up.body("PUT /brand/b1"), "Gear for every trail")
	require.Equal(t, 2, g.up.count("GET /brand/b1"))

	ev := lastEvent(t, g)
	require.Equal(t, events.EventProfileUpdated, ev.Type)
	require.Equal(t, "u1", ev.Recipient())
	require.Equal(t, "b1", ev.Payload["brand_id"])

	status, _ = g.do(t, "PUT", "/api/v1/pages/brands/b1/name", owner, `{"name":"  Acme Co "}`)
	require.Equal(t, 200, status)
	require.JSONEq(t, `{"name":"Acme Co"}`, g.up.body("PUT /auth/me"))

	status, env = g.do(t, "PUT", "/api/v1/pages/brands/b1/name", owner, `{"name":"   "}`)
	require.Equal(t, 400, status)
	require.Equal(t, "validation", env.Kind)
	require.Equal(t, 1, g.up.count("PUT /auth/me"))

	status, _ = g.do(t, "PUT", "/api/v1/pages/brands/b1/tags", owner, `{"tags":["Camping","Hiking"]}`)
	require.Equal(t, 200, status)
	body := g.up.body("PUT /brand/b1")
	require.Contains(t, body, "Camping")
	require.Contains(t, body, "Hiking")
	require.NotContains(t, body, "Outdoor")

	status, _ = g.do(t, "PUT", "/api/v1/pages/brands/b1/location", owner, `{"city":"Pune","country":"India"}`)
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /brand/b1"), "Pune, India")
}

func TestBrandEditsRequireOwner(t *testing.T) {
	g := newBrandGateway(t)

	status, _ := g.do(t, "PUT", "/api/v1/pages/brands/b1/description", "", `{"description":"x"}`)
	require.Equal(t, 401, status)

	status, _ = g.do(t, "PUT", "/api/v1/pages/brands/b1/description", token(t, "u3", "brand", "b3"), `{"description":"x"}`)
	require.Equal(t, 403, status)
	require.Zero(t, g.up.count("PUT /brand/b1"))
	require.Empty(t, g.events)
}

func TestBrandLogoUpload(t *testing.T) {
	g := newBrandGateway(t)
	owner := token(t, "u1", "brand", "b1")

	status, _ := g.doMultipart(t, "PUT", "/api/v1/pages/brands/b1/logo", owner, nil,
		formFile{field: "logo", name: "logo.png", contentType: "image/png", content: "png-bytes"})
	require.Equal(t, 200, status)
	body := g.up.body("PUT /brand/b1")
	require.Contains(t, body, `filename="logo.png"`)
	require.Contains(t, body, "png-bytes")

	status, env := g.doMultipart(t, "PUT", "/api/v1/pages/brands/b1/logo", owner, nil,
		formFile{field: "logo", name: "notes.txt", contentType: "text/plain", content: "hello"})
	require.Equal(t, 400, status)
	require.Equal(t, "validation", env.Kind)

	status, _ = g.doMultipart(t, "PUT", "/api/v1/pages/brands/b1/logo", owner, map[string]string{"other": "x"})
	require.Equal(t, 400, status)
	require.Equal(t, 1, g.up.count("PUT /brand/b1"))
}

func TestMyBrand(t *testing.T) {
	g := newBrandGateway(t)

	status, env := g.do(t, "GET", "/api/v1/pages/brands/me", token(t, "u1", "brand", "b1"), "")
	require.Equal(t, 200, status)
	var view struct {
		Profile struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Equal(t, "b1", view.Profile.ID)
	require.Equal(t, "Acme", view.Profile.Name)
	require.Equal(t, 1, g.up.count("GET /brand/user/u1"))

	status, _ = g.do(t, "GET", "/api/v1/pages/brands/me", "", "")
	require.Equal(t, 401, status)
}

func TestInfluencerProfileEdits(t *testing.T) {
	g := newInfluencerGateway(t)
	owner := token(t, "u2", "influencer", "i1")

	status, _ := g.do(t, "PUT", "/api/v1/pages/influencers/i1/description", owner, `{"description":"Trail runner"}`)
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /influencer/i1"), "Trail runner")
	ev := lastEvent(t, g)
	require.Equal(t, events.EventProfileUpdated, ev.Type)
	require.Equal(t, "i1", ev.Payload["influencer_id"])

	status, _ = g.do(t, "PUT", "/api/v1/pages/influencers/i1/tags", owner, `{"tags":["Running"]}`)
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /influencer/i1"), "Running")

	status, _ = g.do(t, "PUT", "/api/v1/pages/influencers/i1/location", owner, `{"city":"Goa","country":"India"}`)
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /influencer/i1"), "Goa")

	status, _ = g.do(t, "PUT", "/api/v1/pages/influencers/i1/social", owner, `{"accounts":{"instagram":"@ann.trails"}}`)
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /influencer/i1"), "ann.trails")

	status, env := g.do(t, "PUT", "/api/v1/pages/influencers/i1/social", owner, `{"accounts":{"myspace":"ann"}}`)
	require.Equal(t, 400, status)
	require.Equal(t, "validation", env.Kind)

	status, _ = g.doMultipart(t, "PUT", "/api/v1/pages/influencers/i1/photo", owner, nil,
		formFile{field: "profileImage", name: "me.jpg", contentType: "image/jpeg", content: "jpeg-bytes"})
	require.Equal(t, 200, status)
	require.Contains(t, g.up.body("PUT /influencer/i1"), "jpeg-bytes")

	status, _ = g.do(t, "PUT", "/api/v1/pages/influencers/i1/description", token(t, "u5", "influencer", "i5"), `{"description":"x"}`)
	require.Equal(t, 403, status)
}

func TestCreateCampaignRoute(t *testing.T) {
	g := newGateway(t, nil)
	g.up.set("POST /campaign", `{"success":true,"data":{"_id":"c5","brandId":"b1","name":"Summer"}}`)
	brand := token(t, "u1", "brand", "b1")

	status, env := g.doMultipart(t, "POST", "/api/v1/pages/campaigns", brand,
		map[string]string{"name": "Summer", "budget": "1500", "tags": "Travel, Food", "platforms": "instagram"},
		formFile{field: "attachments", name: "brief.pdf", contentType: "application/pdf", content: "brief-bytes"})
	require.Equal(t, 201, status)
	require.Contains(t, string(env.Data), `"_id":"c5"`)
	body := g.up.body("POST /campaign")
	require.Contains(t, body, "Summer")
	require.Contains(t, body, "1500")
	require.Contains(t, body, "brief-bytes")

	ev := lastEvent(t, g)
	require.Equal(t, events.EventCampaignCreated, ev.Type)
	require.Equal(t, "c5", ev.Payload["campaign_id"])

	status, env = g.doMultipart(t, "POST", "/api/v1/pages/campaigns", brand, map[string]string{"budget": "10"})
	require.Equal(t, 400, status)
	require.Equal(t, "validation", env.Kind)

	status, _ = g.doMultipart(t, "POST", "/api/v1/pages/campaigns", brand, map[string]string{"name": "X", "budget": "lots"})
	require.Equal(t, 400, status)

	status, _ = g.doMultipart(t, "POST", "/api/v1/pages/campaigns", token(t, "u2", "influencer", "i1"), map[string]string{"name": "X"})
	require.Equal(t, 403, status)
	require.Equal(t, 1, g.up.count("POST /campaign"))
}

func TestUpdateCampaignRoute(t *testing.T) {
	g := newGateway(t, nil)
	g.up.set("PUT /campaign/c1", `{"success":true,"data":{"_id":"c1","brandId":"b1","name":"Launch v2"}}`)

	status, env := g.doMultipart(t, "PUT", "/api/v1/pages/campaigns/c1", token(t, "u1", "brand", "b1"),
		map[string]string{"name": "Launch v2", "status": "closed"})
	require.Equal(t, 200, status)
	require.Contains(t, string(env.Data), "Launch v2")
	require.Contains(t, g.up.body("PUT /campaign/c1"), "Launch v2")
	require.Equal(t, events.EventCampaignUpdated, lastEvent(t, g).Type)

	status, _ = g.doMultipart(t, "PUT", "/api/v1/pages/campaigns/c1", token(t, "u3", "brand", "b3"),
		map[string]string{"name": "Hijack"})
	require.Equal(t, 403, status)
	require.Equal(t, 1, g.up.count("PUT /campaign/c1"))
}
