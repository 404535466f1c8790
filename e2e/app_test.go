package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

// E2ETestSuite drives the built binaries against one database file
type E2ETestSuite struct {
	suite.Suite
	workDir string
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	os.Remove(dbPath) // Ensure clean state
	suite.workDir = suite.T().TempDir()

	out, err := suite.exec(adduserBin, "", "-user", "testuser", "-password", "testpass123!")
	require.NoError(suite.T(), err, "could not create admin user: %s", out)
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	os.Remove(dbPath)
}

// exec runs bin with DB_PATH pointing at the shared store and returns combined output.
func (suite *E2ETestSuite) exec(bin, stdin string, args ...string) (string, error) {
	cmd := exec.Command(bin, args...)
	cmd.Dir = suite.workDir
	cmd.Env = append(os.Environ(), "DB_PATH="+dbPath, "HOME="+suite.workDir)
	cmd.Stdin = strings.NewReader(stdin)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func (suite *E2ETestSuite) expenses(stdin string, args ...string) string {
	out, err := suite.exec(expensesBin, stdin, args...)
	require.NoError(suite.T(), err, "expenses %v failed: %s", args, out)
	return out
}

func (suite *E2ETestSuite) TestLogin() {
	out := suite.expenses("testpass123!\n", "login", "-user", "testuser")
	assert.Contains(suite.T(), out, "Logged in as testuser")

	out, err := suite.exec(expensesBin, "nope\n", "login", "-user", "testuser")
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), out, "Invalid username or password")
}

func (suite *E2ETestSuite) TestSignupThenLogin() {
	out := suite.expenses("n3w-user!\n", "signup", "-user", "newcomer")
	assert.Contains(suite.T(), out, "User successfully registered!")

	out = suite.expenses("n3w-user!\n", "login", "-user", "newcomer")
	assert.Contains(suite.T(), out, "Logged in as newcomer")
}

func (suite *E2ETestSuite) TestExpenseLifecycle() {
	suite.expenses("", "add", "-date", "2024-03-01", "-amount", "42.10", "-category", "Shopping",
		"-description", "E2E Shoes", "-payment", "Card")

	out := suite.expenses("", "list")
	assert.Contains(suite.T(), out, "E2E Shoes")
	assert.Contains(suite.T(), out, "42.10")

	out = suite.expenses("", "summary", "-by", "monthly")
	assert.Contains(suite.T(), out, "2024-03")

	xlsx := filepath.Join(suite.workDir, "report.xlsx")
	suite.expenses("", "export", "-format", "xlsx", "-o", xlsx)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(suite.T(), err)
	defer f.Close()
	rows, err := f.GetRows("Expenses")
	require.NoError(suite.T(), err)
	assert.GreaterOrEqual(suite.T(), len(rows), 2, "header plus at least one expense")
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
