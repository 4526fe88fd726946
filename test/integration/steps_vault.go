package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	tokens       map[string]string
	activeToken  string
	entityIDs    map[string]string
	entityKinds  map[string]string
	revealed     string
	runID        string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:          tc,
		tokens:      make(map[string]string),
		entityIDs:   make(map[string]string),
		entityKinds: make(map[string]string),
		runID:       strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// unique suffixes a name with the scenario's run id. Scenarios share
// one database, so sibling names must not collide across scenarios.
func (s *StepsContext) unique(name string) string {
	return name + "-" + s.runID
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a vault server is running$`, s.aVaultServerIsRunning)
	sc.Step(`^I am authenticated as admin "([^"]*)" in tenant "([^"]*)"$`, s.iAmAuthenticatedAsAdmin)
	sc.Step(`^I am authenticated as user "([^"]*)" in tenant "([^"]*)"$`, s.iAmAuthenticatedAsUser)
	sc.Step(`^I act as "([^"]*)"$`, s.iActAs)

	// Hierarchy steps
	sc.Step(`^an organization "([^"]*)" exists$`, s.anOrganizationExists)
	sc.Step(`^a collection "([^"]*)" exists in organization "([^"]*)"$`, s.aCollectionExists)
	sc.Step(`^a folder "([^"]*)" exists in collection "([^"]*)"$`, s.aFolderExists)
	sc.Step(`^a password "([^"]*)" with secret "([^"]*)" exists in folder "([^"]*)"$`, s.aPasswordExists)

	// Operations
	sc.Step(`^I delete the (organization|collection|folder|password) "([^"]*)"$`, s.iDeleteEntity)
	sc.Step(`^I restore the trash item for "([^"]*)"$`, s.iRestoreTrashItemFor)
	sc.Step(`^I empty the trash$`, s.iEmptyTheTrash)
	sc.Step(`^I reveal the secret of password "([^"]*)"$`, s.iRevealSecret)
	sc.Step(`^I retrieve the password "([^"]*)"$`, s.iRetrievePassword)
	sc.Step(`^I share the folder "([^"]*)" with user "([^"]*)"$`, s.iShareFolderWith)

	// Assertions
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should report (\d+) trashed entities$`, s.theResponseShouldReportTrashed)
	sc.Step(`^the response should report (\d+) purged entities$`, s.theResponseShouldReportPurged)
	sc.Step(`^the revealed value should be "([^"]*)"$`, s.theRevealedValueShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
}

func (s *StepsContext) aVaultServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// authenticate issues a token in a scenario-scoped tenant, isolating
// scenarios from each other's hierarchy and trash.
func (s *StepsContext) authenticate(user, tenant string, admin bool) error {
	token, err := identity.IssueToken(&identity.Identity{
		UserID:   user,
		TenantID: s.unique(tenant),
		Login:    user,
		Admin:    admin,
	}, []byte(testSigningKey), time.Hour)
	if err != nil {
		return err
	}
	s.tokens[user] = token
	s.activeToken = token
	return nil
}

func (s *StepsContext) iAmAuthenticatedAsAdmin(user, tenant string) error {
	return s.authenticate(user, tenant, true)
}

func (s *StepsContext) iAmAuthenticatedAsUser(user, tenant string) error {
	return s.authenticate(user, tenant, false)
}

func (s *StepsContext) iActAs(user string) error {
	token, ok := s.tokens[user]
	if !ok {
		return fmt.Errorf("no token issued for user %s", user)
	}
	s.activeToken = token
	return nil
}

func (s *StepsContext) request(method, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.activeToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// createEntity posts to an entity collection and remembers the new id.
func (s *StepsContext) createEntity(path, name, kind string, payload map[string]interface{}) error {
	if err := s.request("POST", path, payload); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("expected 201 creating %s %q, got %d: %s", kind, name, s.response.StatusCode, s.responseBody)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.responseBody, &created); err != nil {
		return err
	}
	s.entityIDs[name] = created.ID
	s.entityKinds[name] = kind
	return nil
}

func (s *StepsContext) anOrganizationExists(name string) error {
	return s.createEntity("/organizations", name, "organization", map[string]interface{}{"name": s.unique(name)})
}

func (s *StepsContext) aCollectionExists(name, org string) error {
	return s.createEntity("/collections", name, "collection", map[string]interface{}{
		"org_id": s.entityIDs[org], "name": s.unique(name),
	})
}

func (s *StepsContext) aFolderExists(name, collection string) error {
	return s.createEntity("/folders", name, "folder", map[string]interface{}{
		"collection_id": s.entityIDs[collection], "name": s.unique(name),
	})
}

func (s *StepsContext) aPasswordExists(name, secret, folder string) error {
	return s.createEntity("/passwords", name, "password", map[string]interface{}{
		"folder_id": s.entityIDs[folder], "name": s.unique(name), "secret": secret,
	})
}

func (s *StepsContext) iDeleteEntity(kind, name string) error {
	return s.request("DELETE", fmt.Sprintf("/%ss/%s", kind, s.entityIDs[name]), nil)
}

// iRestoreTrashItemFor looks the entity up in the trash listing and
// restores its item.
func (s *StepsContext) iRestoreTrashItemFor(name string) error {
	if err := s.request("GET", "/trash", nil); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("trash listing failed with %d: %s", s.response.StatusCode, s.responseBody)
	}

	var listing struct {
		Items []struct {
			ID       string `json:"id"`
			EntityID string `json:"entity_id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(s.responseBody, &listing); err != nil {
		return err
	}

	entityID := s.entityIDs[name]
	for _, item := range listing.Items {
		if item.EntityID == entityID {
			return s.request("POST", "/trash/"+item.ID+"/restore", nil)
		}
	}
	return fmt.Errorf("no trash item found for %q", name)
}

func (s *StepsContext) iEmptyTheTrash() error {
	return s.request("DELETE", "/trash", nil)
}

func (s *StepsContext) iRevealSecret(name string) error {
	if err := s.request("GET", "/passwords/"+s.entityIDs[name]+"/value", nil); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		s.revealed = string(s.responseBody)
	}
	return nil
}

func (s *StepsContext) iRetrievePassword(name string) error {
	return s.request("GET", "/passwords/"+s.entityIDs[name], nil)
}

func (s *StepsContext) iShareFolderWith(folder, user string) error {
	return s.request("POST", "/shares", map[string]interface{}{
		"user_id": user, "entity_kind": "folder", "entity_id": s.entityIDs[folder],
	})
}

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) countFromResponse(field string) (int, error) {
	var counts map[string]int
	if err := json.Unmarshal(s.responseBody, &counts); err != nil {
		return 0, err
	}
	return counts[field], nil
}

func (s *StepsContext) theResponseShouldReportTrashed(expected int) error {
	count, err := s.countFromResponse("trashed")
	if err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("expected %d trashed entities, got %d", expected, count)
	}
	return nil
}

func (s *StepsContext) theResponseShouldReportPurged(expected int) error {
	count, err := s.countFromResponse("purged")
	if err != nil {
		return err
	}
	if count != expected {
		return fmt.Errorf("expected %d purged entities, got %d", expected, count)
	}
	return nil
}

func (s *StepsContext) theRevealedValueShouldBe(expected string) error {
	if s.revealed != expected {
		return fmt.Errorf("expected revealed value %q, got %q", expected, s.revealed)
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(expected string) error {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	if body.Error.Code != expected {
		return fmt.Errorf("expected error code %q, got %q: %s", expected, body.Error.Code, s.responseBody)
	}
	return nil
}
